package imagechain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var candidates = []string{
	"https://images.unsplash.com/photo-1518791841217-8f162f1e1131",
	"https://images.pexels.com/photos/1170986/pexels-photo-1170986.jpeg",
	"https://images.pexels.com/photos/2071873/pexels-photo-2071873.jpeg",
}

func TestChainAppendsPlaceholders(t *testing.T) {
	c := New(candidates...)
	sources := c.Sources()
	require.Len(t, sources, len(candidates)+2)
	require.Equal(t, candidates, sources[:len(candidates)])
	require.Equal(t, HostedPlaceholder, sources[len(sources)-2])
	require.Equal(t, InlinePlaceholder, sources[len(sources)-1])
	require.Equal(t, 0, c.Cursor())
	require.Equal(t, candidates[0], c.Current())
}

func TestChainFailuresAdvanceInOrderAndStopAtInline(t *testing.T) {
	for n := 0; n <= len(candidates); n++ {
		c := New(candidates[:n]...)
		total := len(c.Sources())

		for i := 1; i < total; i++ {
			require.True(t, c.Fail(), "failure %d should advance", i)
			require.Equal(t, i, c.Cursor())
			require.Equal(t, c.Sources()[i], c.Current())
		}
		require.True(t, c.Final())
		require.Equal(t, InlinePlaceholder, c.Current())

		require.False(t, c.Fail())
		require.Equal(t, InlinePlaceholder, c.Current())
		require.Equal(t, total-1, c.Cursor())
		require.Equal(t, c.Sources(), c.Requested())
	}
}

func TestChainFirstSuccessNeverAdvances(t *testing.T) {
	c := New(candidates...)
	c.Loaded()
	require.False(t, c.Fail())
	require.Equal(t, 0, c.Cursor())
	require.Equal(t, []string{candidates[0]}, c.Requested())
}

func TestChainsAreIndependent(t *testing.T) {
	a := New(candidates...)
	b := New(candidates...)
	a.Fail()
	a.Fail()
	require.Equal(t, 2, a.Cursor())
	require.Equal(t, 0, b.Cursor())
}

func TestChainSkipsEmptyCandidates(t *testing.T) {
	c := New("", candidates[0], "")
	require.Equal(t, []string{candidates[0], HostedPlaceholder, InlinePlaceholder}, c.Sources())
}

func TestViewCarriesRemainingSources(t *testing.T) {
	c := New(candidates...)
	c.Fail()
	v := c.View("Relaxed cat", "w-full")
	require.Equal(t, candidates[1], string(v.Src))
	require.Equal(t, "Relaxed cat", v.Alt)

	var rest []string
	require.NoError(t, json.Unmarshal([]byte(v.Fallbacks), &rest))
	require.Equal(t, []string{candidates[2], HostedPlaceholder, InlinePlaceholder}, rest)

	for c.Fail() {
	}
	require.Equal(t, "[]", c.View("", "").Fallbacks)
}

func TestSoftBackground(t *testing.T) {
	pair := SoftBackground("a.jpg")
	require.Equal(t, "a.jpg", string(pair[0]))
	require.Equal(t, "a.jpg", string(pair[1]))

	pair = SoftBackground("a.jpg", "b.jpg")
	require.Equal(t, "b.jpg", string(pair[1]))

	require.Empty(t, SoftBackground()[0])
}
