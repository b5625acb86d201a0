package search

import (
	"strings"

	"github.com/rpggio/karte/internal/domain/idea"
	"github.com/rpggio/karte/internal/domain/note"
	"github.com/rpggio/karte/internal/domain/project"
	"github.com/rpggio/karte/internal/domain/resource"
)

// Field weights. Short identifying fields outrank free text.
const (
	WeightProjectTitle  = 3
	WeightProjectClient = 3
	WeightProjectOwner  = 2
	WeightProjectNotes  = 1
	WeightProjectStatus = 1

	WeightNoteBody = 1

	WeightResourceLabel  = 3
	WeightResourceTarget = 1
	WeightResourceKind   = 1

	WeightIdeaCaption   = 2
	WeightIdeaSourceURL = 1
)

type field struct {
	name   string
	weight int
	text   string
}

func projectFields(p *project.Project) []field {
	return []field{
		{"title", WeightProjectTitle, p.Title},
		{"client", WeightProjectClient, p.Client},
		{"owner", WeightProjectOwner, p.Owner},
		{"notes", WeightProjectNotes, p.Notes},
		{"status", WeightProjectStatus, string(p.Status) + " " + p.Status.Label()},
	}
}

func noteFields(n *note.Note) []field {
	return []field{
		{"body", WeightNoteBody, n.Body},
	}
}

func resourceFields(r *resource.Resource) []field {
	return []field{
		{"label", WeightResourceLabel, r.Label},
		{"target", WeightResourceTarget, r.Target},
		{"kind", WeightResourceKind, string(r.Kind) + " " + r.Kind.Label()},
	}
}

func ideaFields(i *idea.Idea) []field {
	return []field{
		{"caption", WeightIdeaCaption, i.Caption},
		{"source_url", WeightIdeaSourceURL, i.SourceURL},
	}
}

// match is the scoring outcome for one record.
type match struct {
	score int
	// best is the index of the highest-weight matched field, or -1.
	best int
}

// scoreFields sums weight × presence over every token and field.
func scoreFields(keywords []string, fields []field) match {
	m := match{best: -1}
	for i, f := range fields {
		if f.text == "" {
			continue
		}
		folded := Fold(f.text)
		hit := false
		for _, kw := range keywords {
			if strings.Contains(folded, kw) {
				m.score += f.weight
				hit = true
			}
		}
		if hit && (m.best < 0 || f.weight > fields[m.best].weight) {
			m.best = i
		}
	}
	return m
}
