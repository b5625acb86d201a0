package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rpggio/karte/internal/calendar"
	"github.com/rpggio/karte/internal/domain/entity"
	"github.com/rpggio/karte/internal/search"
	"github.com/spf13/cobra"
)

var (
	searchKinds []string
	searchLimit int
	jsonOutput  bool

	dashboardToday   string
	dashboardHorizon int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>...",
	Short: "Search projects, notes, resources and ideas",
	Long: `Search all records with free text. Date phrases such as 今日, 来週,
今月 or 期限切れ narrow projects by due date.

Examples:
  karte search A社 来週
  karte search 期限切れ
  karte search --kind note 定例`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kinds := make([]entity.Kind, 0, len(searchKinds))
		for _, k := range searchKinds {
			kinds = append(kinds, entity.Kind(k))
		}

		stack, err := openStack(cmd.Context())
		if err != nil {
			return err
		}
		hits, err := stack.Search.Search(cmd.Context(), strings.Join(args, " "), search.Options{
			Kinds: kinds,
			Limit: searchLimit,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, hits)
		}
		renderHits(out, hits)
		return nil
	},
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show overdue, upcoming and in-progress projects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stack, err := openStack(cmd.Context())
		if err != nil {
			return err
		}

		today := stack.Today()
		if dashboardToday != "" {
			today, err = calendar.ParseDate(dashboardToday)
			if err != nil {
				return fmt.Errorf("invalid --today: %w", err)
			}
		}
		horizon := dashboardHorizon
		if horizon == 0 {
			horizon = cfg.Dashboard.HorizonDays
		}

		view, err := stack.Dashboard.Build(cmd.Context(), today, horizon)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, view)
		}
		renderDashboard(out, view)
		return nil
	},
}

func init() {
	searchCmd.Flags().StringSliceVarP(&searchKinds, "kind", "k", nil, "restrict to kinds (project, note, resource, idea)")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 20, "maximum number of hits")

	dashboardCmd.Flags().StringVar(&dashboardToday, "today", "", "reference day as YYYY-MM-DD")
	dashboardCmd.Flags().IntVar(&dashboardHorizon, "horizon", 0, "days ahead counted as due soon")

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print JSON instead of text")
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
