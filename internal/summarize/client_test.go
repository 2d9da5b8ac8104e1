package summarize

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"docsum-backend/internal/llm"
)

type fakeGenerator struct {
	prompts []string
	reply   string
	err     error
}

func (f *fakeGenerator) Name() string { return "fake" }

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func TestNewRequiresGenerator(t *testing.T) {
	_, err := New(nil)
	require.ErrorIs(t, err, llm.ErrConfiguration)
}

func TestSummarizeRejectsEmptyContent(t *testing.T) {
	gen := &fakeGenerator{reply: "x"}
	client, err := New(gen)
	require.NoError(t, err)

	for _, in := range []string{"", "   \n\t"} {
		_, err := client.Summarize(context.Background(), in)
		require.ErrorIs(t, err, ErrEmptyContent)
	}
	require.Empty(t, gen.prompts, "no call may be issued for empty content")
}

func TestSummarizeWrapsContentInPrompt(t *testing.T) {
	gen := &fakeGenerator{reply: "  The gist.  "}
	client, err := New(gen)
	require.NoError(t, err)

	got, err := client.Summarize(context.Background(), "Body text here.")
	require.NoError(t, err)
	require.Equal(t, "The gist.", got)
	require.Len(t, gen.prompts, 1)
	require.True(t, strings.HasPrefix(gen.prompts[0], "Summarize the following content"))
	require.Contains(t, gen.prompts[0], "\n\nBody text here.\n\n")
	require.Equal(t, "fake", client.Provider())
}

func TestSummarizeSurfacesProviderErrors(t *testing.T) {
	upstream := &llm.UpstreamError{Provider: "fake", StatusCode: 401}
	client, err := New(&fakeGenerator{err: upstream})
	require.NoError(t, err)

	_, err = client.Summarize(context.Background(), "text")
	require.ErrorIs(t, err, llm.ErrInvalidCredential)
	require.True(t, IsUpstream(err))

	client, err = New(&fakeGenerator{reply: " "})
	require.NoError(t, err)
	_, err = client.Summarize(context.Background(), "text")
	require.ErrorIs(t, err, ErrEmptyResponse)
	require.True(t, IsUpstream(err))
	require.False(t, IsUpstream(errors.New("other")))
}
