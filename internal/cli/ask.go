package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dinewise/dinewise/internal/agent"
	"github.com/dinewise/dinewise/internal/llm"
	"github.com/dinewise/dinewise/internal/service"
)

var askRestaurant string

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the assistant a one-off question",
	Long: `Run a single conversation turn against the review index and print
the synthesized answer.

Examples:
  dinewise ask "What are the most praised dishes at The Ivy?"
  dinewise ask --restaurant the_ivy "How do reviewers rate the service?"`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askRestaurant, "restaurant", "r", "", "restaurant record id for session context")
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]
	ctx := context.Background()

	embedder, err := newEmbedder()
	if err != nil {
		return err
	}
	model, err := llm.NewModel(cfg)
	if err != nil {
		return fmt.Errorf("init model: %w", err)
	}

	restaurants := service.NewRestaurantService(dbClient, nil)
	retriever := service.NewReviewRetriever(dbClient, embedder, nil, nil)

	assistant := agent.New(ctx, askRestaurant, agent.Dependencies{
		Model:     model,
		Retriever: retriever,
		Context:   restaurants,
		Nearby:    restaurants,
	})

	result := assistant.ProcessTurn(ctx, question)
	if result.Status != agent.StatusOK {
		return fmt.Errorf("turn failed: %s", result.Detail)
	}

	fmt.Println(result.Answer)
	if verbose {
		fmt.Printf("\n(%.2fs)\n", result.ElapsedTime)
	}
	return nil
}
