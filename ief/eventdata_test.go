package ief

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventStoreAddDeduplicates(t *testing.T) {
	s := NewEventStore()
	assert.Equal(t, "Event", s.Add("Event", "a.ied"))
	assert.Equal(t, "Event<0>", s.Add("Event", "b.ied"))
	assert.Equal(t, "Event<1>", s.Add("Event", "c.ied"))
	assert.Equal(t, "<0>", s.Add("", "d.ied"))
	assert.Equal(t, "<1>", s.Add("", "e.ied"))

	assert.Equal(t, []string{"Event", "Event<0>", "Event<1>", "<0>", "<1>"}, s.Titles())
	v, ok := s.Get("Event<1>")
	require.True(t, ok)
	assert.Equal(t, "c.ied", v)
}

func TestEventStoreSetAndRemove(t *testing.T) {
	s := NewEventStore(EventEntry{Title: "base", Value: "a.ied"})
	s.Set("base", "a2.ied")
	v, _ := s.Get("base")
	assert.Equal(t, "a2.ied", v)
	assert.Equal(t, 1, s.Len())

	s.Set("other", "b.ied")
	assert.Equal(t, 2, s.Len())

	assert.True(t, s.Remove("base"))
	assert.False(t, s.Remove("base"))
	assert.Equal(t, []string{"other"}, s.Titles())
}

func TestStripDisambiguator(t *testing.T) {
	assert.Equal(t, "Event", stripDisambiguator("Event<0>"))
	assert.Equal(t, "Event", stripDisambiguator("Event<12>"))
	assert.Equal(t, "", stripDisambiguator("<0>"))
	assert.Equal(t, "Event", stripDisambiguator("Event"))
	assert.Equal(t, "a<b>", stripDisambiguator("a<b>"))
}

func TestEventTitle(t *testing.T) {
	assert.Equal(t, "100yr", eventTitle(`..\events\100yr.ied`))
	assert.Equal(t, "100yr", eventTitle("events/100yr.ied"))
	assert.Equal(t, "100yr", eventTitle("100yr"))
	assert.Equal(t, ".hidden", eventTitle(".hidden"))
	assert.Equal(t, "", eventTitle(""))
}

func TestUntitledEventGetsPlaceholder(t *testing.T) {
	src := "[ISIS Event Details]\nRunType=Steady\nStart=0\nICsFrom=1\nEventData=\n"
	d, err := Parse([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, []string{"<0>"}, d.EventData().Titles())

	out, err := d.Write()
	require.NoError(t, err)
	assert.Equal(t,
		"[ISIS Event Details]\nRunType=Steady\nStart=0\nICsFrom=1\n;\nEventData=\n",
		out, "an untitled entry writes a bare comment marker")
}

func TestDuplicateTitlesRoundTrip(t *testing.T) {
	src := "[ISIS Event Details]\n" +
		"RunType=Steady\n" +
		"Start=0\n" +
		"ICsFrom=1\n" +
		";Event\n" +
		"EventData=run1.ied\n" +
		";Event\n" +
		"EventData=run2.ied\n"
	d, err := Parse([]byte(src))
	require.NoError(t, err)

	store := d.EventData()
	assert.Equal(t, []string{"Event", "Event<0>"}, store.Titles())
	v, _ := store.Get("Event<0>")
	assert.Equal(t, "run2.ied", v)

	out, err := d.Write()
	require.NoError(t, err)
	assert.Equal(t, src, out, "disambiguators never reach the file")
}

func TestEventDataResyncGrowAndShrink(t *testing.T) {
	d, err := Parse([]byte(baselineDoc))
	require.NoError(t, err)
	store := d.EventData()

	store.Add("200yr", `..\events\200yr.ied`)
	out, err := d.Write()
	require.NoError(t, err)
	assert.Contains(t, out, ";200yr\nEventData=..\\events\\200yr.ied\n")
	assert.Equal(t, 3, strings.Count(out, "EventData="))

	require.True(t, store.Remove("100yr"))
	out, err = d.Write()
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "EventData="))
	assert.NotContains(t, out, "100yr.ied")
	assert.Contains(t, out, ";100yr+CC\n")
	assert.Equal(t, strings.Count(out, ";"), 2,
		"each removed placeholder takes its comment with it")
}

func TestEventDataCountTracksStore(t *testing.T) {
	d, err := Parse([]byte(baselineDoc))
	require.NoError(t, err)
	store := d.EventData()

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		if titles := store.Titles(); len(titles) > 0 && rng.Intn(3) == 0 {
			store.Remove(titles[rng.Intn(len(titles))])
		} else {
			store.Add(fmt.Sprintf("run%d", i), fmt.Sprintf("run%d.ied", i))
		}
		out, err := d.Write()
		require.NoError(t, err)
		assert.Equal(t, store.Len(), strings.Count(out, "EventData="))
	}
}

func TestDeletingEventDataRemovesAllEntries(t *testing.T) {
	d, err := Parse([]byte(baselineDoc))
	require.NoError(t, err)

	require.True(t, d.Delete("EventData"))
	out, err := d.Write()
	require.NoError(t, err)
	assert.NotContains(t, out, "EventData")
	assert.NotContains(t, out, ";")
}

func TestEventDataMustBeStore(t *testing.T) {
	d, err := Parse([]byte(baselineDoc))
	require.NoError(t, err)

	d.Set("eventdata", "not a store")
	_, err = d.Write()
	require.Error(t, err)
	assert.True(t, IsKind(err, KindConfiguration))
}
