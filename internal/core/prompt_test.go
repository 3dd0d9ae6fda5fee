package core

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tutor-backend-go/internal/llm"
	"tutor-backend-go/internal/models"
)

type slowImages struct {
	inFlight atomic.Int32
	mu       sync.Mutex
	peak     int32
}

func (s *slowImages) Fetch(_ context.Context, url string) (*llm.InlineData, error) {
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	s.mu.Lock()
	if n > s.peak {
		s.peak = n
	}
	s.mu.Unlock()
	time.Sleep(10 * time.Millisecond)
	return &llm.InlineData{MimeType: "image/png", Data: url}, nil
}

func TestBuildContents_BoundsConcurrencyAndKeepsOrder(t *testing.T) {
	var history []models.Turn
	for i := 0; i < 10; i++ {
		history = append(history,
			models.NewUserTurn(fmt.Sprintf("q%d", i), fmt.Sprintf("img-%d", i)),
			models.NewModelTurn(fmt.Sprintf("a%d", i)))
	}
	images := &slowImages{}

	contents, err := buildContents(context.Background(), images, history, models.NewUserTurn("now", ""), 2)
	require.NoError(t, err)
	require.Len(t, contents, 21)

	assert.LessOrEqual(t, images.peak, int32(2))
	for i := 0; i < 10; i++ {
		c := contents[2*i]
		require.Len(t, c.Parts, 2)
		assert.Equal(t, fmt.Sprintf("img-%d", i), c.Parts[0].InlineData.Data)
		assert.Equal(t, fmt.Sprintf("q%d", i), c.Parts[1].Text)
	}
	assert.Equal(t, "now", contents[20].Parts[0].Text)
}

func TestBuildContents_SkipsEmptyTurns(t *testing.T) {
	history := []models.Turn{
		{Role: models.RoleUser, Parts: []models.Part{{}}},
		models.NewModelTurn("a"),
	}
	contents, err := buildContents(context.Background(), &fakeImages{}, history, models.NewUserTurn("q", ""), 1)
	require.NoError(t, err)
	require.Len(t, contents, 2)
	assert.Equal(t, "model", contents[0].Role)
}

func TestTrimHistory(t *testing.T) {
	h := []models.Turn{
		models.NewUserTurn("q0", ""), models.NewModelTurn("a0"),
		models.NewUserTurn("q1", ""), models.NewModelTurn("a1"),
	}
	assert.Len(t, trimHistory(h, 0), 4)
	assert.Len(t, trimHistory(h, 10), 4)
	trimmed := trimHistory(h, 3)
	require.Len(t, trimmed, 2)
	assert.Equal(t, "q1", trimmed[0].Text())
	assert.Empty(t, trimHistory([]models.Turn{models.NewModelTurn("x")}, 5))
}
