package core

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"tutor-backend-go/internal/llm"
	"tutor-backend-go/internal/models"
)

const tutorInstruction = `You are a patient tutor. Never give the student the final answer or a finished solution, even when asked directly.
Instead, guide them with one or two focused questions at a time that help them find the next step on their own.
When the student shares an image of a problem, describe what you see briefly and ask what they have tried so far.
If the student is stuck, offer a smaller hint or a simpler related example, then ask a question again.
Keep replies short, encouraging and specific to the student's work.`

func systemInstruction() *llm.Content {
	return &llm.Content{Parts: []llm.Part{llm.TextPart(tutorInstruction)}}
}

// trimHistory keeps at most max turns and makes sure the replay starts on a user turn.
func trimHistory(history []models.Turn, max int) []models.Turn {
	if max > 0 && len(history) > max {
		history = history[len(history)-max:]
	}
	for len(history) > 0 && history[0].Role != models.RoleUser {
		history = history[1:]
	}
	return history
}

// pendingTurn is a stored turn plus the slot its provider form is written to.
type pendingTurn struct {
	role     models.Role
	text     string
	imageURL string
}

// buildContents converts the stored history and the incoming message into
// provider turns. Images are fetched with at most concurrency requests in flight.
func buildContents(ctx context.Context, images ImageFetcher, history []models.Turn, current models.Turn, concurrency int) ([]llm.Content, error) {
	pending := make([]pendingTurn, 0, len(history)+1)
	for _, t := range history {
		pending = append(pending, pendingTurn{role: t.Role, text: t.Text(), imageURL: t.ImageURL()})
	}
	pending = append(pending, pendingTurn{role: models.RoleUser, text: current.Text(), imageURL: current.ImageURL()})

	contents := make([]llm.Content, len(pending))
	g, gctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, p := range pending {
		i, p := i, p
		if p.role != models.RoleUser || p.imageURL == "" {
			contents[i] = textContent(p)
			continue
		}
		g.Go(func() error {
			data, err := images.Fetch(gctx, p.imageURL)
			if err != nil {
				return fmt.Errorf("fetch image for turn %d: %w", i, err)
			}
			parts := []llm.Part{llm.ImagePart(data)}
			if strings.TrimSpace(p.text) != "" {
				parts = append(parts, llm.TextPart(p.text))
			}
			contents[i] = llm.Content{Role: string(p.role), Parts: parts}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := contents[:0]
	for _, c := range contents {
		if len(c.Parts) > 0 {
			out = append(out, c)
		}
	}
	return out, nil
}

func textContent(p pendingTurn) llm.Content {
	c := llm.Content{Role: string(p.role)}
	if strings.TrimSpace(p.text) != "" {
		c.Parts = []llm.Part{llm.TextPart(p.text)}
	}
	return c
}
