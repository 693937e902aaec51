package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spf13/cobra"

	"github.com/pable/eplswing/internal/dataset"
	"github.com/pable/eplswing/internal/model"
)

const analyzeSystemPrompt = `You are a football writer covering the English Premier League. You are given
structured season data for one team from a results-analysis tool and a question.

Rules:
- Answer ONLY from the data provided. Never invent scores, players or events.
- Cite specific numbers (points, goal difference, home/away changes) for every claim.
- If the data cannot answer the question, say so explicitly.
- Keep it to a few short paragraphs.

Glossary:
- delta_points: 2024-25 points minus 2023-24 points. null means the team missed a season.
- band: significant (>=10 points), moderate (>=5) or modest swing.
- driver: balanced when home and away changes differ by 3 points or less; otherwise
  home-driven or away-driven, whichever change is larger in size.
- callouts: the best win, worst loss and latest close result that earned points.`

var (
	analyzeModel  string
	analyzeAPIKey string
	analyzeBrush  brushFlags
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <team> <question>",
	Short: "Narrative analysis of one team's swing (requires ANTHROPIC_API_KEY)",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "claude-haiku-4-5-20251001", "Anthropic model to use")
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")
	analyzeBrush.register(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	team, question := args[0], args[1]
	f, err := analyzeBrush.filter(cmd)
	if err != nil {
		return err
	}

	ds, err := loadDataset()
	if err != nil {
		return err
	}
	st, ok := ds.Story(team, f)
	if !ok {
		return fmt.Errorf("unknown team %q", team)
	}

	dataJSON, err := buildTeamContext(ds, st)
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}

	fmt.Fprintf(os.Stdout, "\n%s\n", st.Sentence)
	return streamNarrative(cmd.Context(), os.Stdout, analyzeAPIKey, analyzeModel, st.Team, dataJSON, question)
}

// buildTeamContext serialises the team's story plus league context as JSON.
func buildTeamContext(ds *dataset.Dataset, st dataset.Story) (string, error) {
	var seasons []model.TeamSeasonSummary
	for _, s := range ds.Summary {
		if s.Team == st.Team {
			seasons = append(seasons, s)
		}
	}
	doc := map[string]any{
		"team":      st.Team,
		"seasons":   seasons,
		"delta":     st.Delta,
		"band":      st.Band,
		"breakdown": st.Breakdown,
		"callouts":  st.Callouts,
		"matches":   st.Matches,
	}
	if riser, faller, ok := ds.Extremes(); ok {
		doc["league_max_riser"] = map[string]any{"team": riser.Team, "delta_points": riser.Delta}
		doc["league_max_faller"] = map[string]any{"team": faller.Team, "delta_points": faller.Delta}
	}
	b, err := json.Marshal(doc)
	return string(b), err
}

// streamNarrative sends the team context to the Anthropic API and copies the
// streamed text to w as it arrives.
func streamNarrative(ctx context.Context, w io.Writer, apiKey, modelID, team, dataJSON, question string) error {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("no API key: set ANTHROPIC_API_KEY or use --api-key")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	stream := client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: 1024,
		System:    []anthropic.TextBlockParam{{Text: analyzeSystemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(
				fmt.Sprintf("TEAM: %s\n\nDATA:\n%s\n\nQUESTION: %s", team, dataJSON, question))),
		},
	})

	cHeader.Fprintf(w, "\n--- %s: analysis ---\n\n", team)
	for stream.Next() {
		evt := stream.Current()
		if evt.Type != "content_block_delta" {
			continue
		}
		if delta := evt.AsContentBlockDelta(); delta.Delta.Type == "text_delta" {
			fmt.Fprint(w, delta.Delta.AsTextDelta().Text)
		}
	}
	fmt.Fprintln(w)

	if err := stream.Err(); err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("anthropic rejected the API key (401)")
		}
		return fmt.Errorf("stream narrative: %w", err)
	}
	return nil
}
