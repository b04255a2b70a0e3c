package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/qbank/internal/bank"
)

func sample() []bank.Question {
	q1 := bank.Question{
		ID:             "type2-vu1",
		Section:        "Beams",
		Text:           bank.ImageTag("images/vu1.jpg"),
		Options:        bank.DefaultOptions(),
		SolutionImages: []string{"./images/solutions/vu1-sol.jpg", "./images/solutions/vu1-sol-2.jpg"},
		SolutionVideos: []string{"https://example.com/v1"},
		SolutionHTML:   "<p>see figure</p>",
		AssetPath:      "images/vu1.jpg",
	}
	q1.SetAnswer(2)
	q2 := bank.Question{
		ID:        "type2-vu2",
		Section:   "type 2",
		Text:      bank.ImageTag("images/vu2.jpg"),
		Options:   bank.DefaultOptions(),
		AssetPath: "images/vu2.jpg",
	}
	q2.SetAnswer(1)
	return []bank.Question{q1, q2}
}

func TestReplaceAndRead(t *testing.T) {
	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "bank.db"))
	require.NoError(t, err)
	defer s.Close()

	d, err := s.Digest(ctx)
	require.NoError(t, err)
	assert.Empty(t, d)

	want := sample()
	require.NoError(t, s.ReplaceQuestions(ctx, want, "abc"))

	got, err := s.Questions(ctx)
	require.NoError(t, err)
	opts := []cmp.Option{
		cmpopts.IgnoreUnexported(bank.Question{}),
		cmpopts.IgnoreFields(bank.Question{}, "Base"),
	}
	if diff := cmp.Diff(want, got, opts...); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	d, err = s.Digest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", d)
}

func TestReplaceIsWholesale(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "bank.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.ReplaceQuestions(ctx, sample(), "one"))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.ReplaceQuestions(ctx, sample()[1:], "two"))

	got, err := s.Questions(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "type2-vu2", got[0].ID)
	assert.Nil(t, got[0].SolutionImages)

	d, err := s.Digest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "two", d)
}

func TestReplaceDuplicateIDs(t *testing.T) {
	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "bank.db"))
	require.NoError(t, err)
	defer s.Close()

	qs := sample()
	qs[1].ID = qs[0].ID
	require.NoError(t, s.ReplaceQuestions(ctx, qs, "dup"))
	got, err := s.Questions(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
