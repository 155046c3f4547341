package ief

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baselineDoc = `[ISIS Event Header]
Title=Baseline run
Datafile=..\model\network.dat
Results=..\results\baseline
[ISIS Event Details]
RunType=Unsteady
Start=0
Finish=12.5
Timestep=2.50
SaveInterval=60
ICsFrom=1
;100yr
EventData=..\events\100yr.ied
;100yr+CC
EventData=..\events\100yr_cc.ied
`

func TestRoundTripUnchanged(t *testing.T) {
	d, err := Parse([]byte(baselineDoc))
	require.NoError(t, err)

	out, err := d.Write()
	require.NoError(t, err)
	assert.Equal(t, baselineDoc, out)

	again, err := d.Write()
	require.NoError(t, err)
	assert.Equal(t, out, again, "writing twice must not drift")
}

func TestRoundTripSpacedCRLF(t *testing.T) {
	src := "[ISIS Event Header]\r\n" +
		"Title = My run\r\n" +
		"\r\n" +
		"[ISIS Event Details]\r\n" +
		"RunType = Steady\r\n" +
		"Start = 0\r\n" +
		"ICsFrom = 1\r\n"

	d, err := Parse([]byte(src))
	require.NoError(t, err)

	out, err := d.Write()
	require.NoError(t, err)
	assert.Equal(t, src, out)
}

func TestRoundTripNoFinalNewline(t *testing.T) {
	src := "[ISIS Event Details]\nRunType=Steady\nStart=0\nICsFrom=1"
	d, err := Parse([]byte(src))
	require.NoError(t, err)

	out, err := d.Write()
	require.NoError(t, err)
	assert.Equal(t, src, out)
}

func TestParseCoercesValues(t *testing.T) {
	d, err := Parse([]byte(baselineDoc))
	require.NoError(t, err)

	start, ok := d.Get("Start")
	require.True(t, ok)
	assert.Equal(t, int64(0), start)

	finish, ok := d.Get("FINISH")
	require.True(t, ok, "attribute names are case-insensitive")
	assert.Equal(t, 12.5, finish)

	timestep, ok := d.Get("timestep")
	require.True(t, ok)
	assert.Equal(t, 2.5, timestep)

	title, ok := d.Get("Title")
	require.True(t, ok)
	assert.Equal(t, "Baseline run", title)
}

func TestParseRejectsEmptyFlagName(t *testing.T) {
	_, err := Parse([]byte("[ISIS Event Details]\n=Steady\n"))
	require.Error(t, err)
	assert.True(t, IsKind(err, KindFormat))
}

func TestMutateThenRevert(t *testing.T) {
	d, err := Parse([]byte(baselineDoc))
	require.NoError(t, err)

	d.Set("Timestep", 3.5)
	out, err := d.Write()
	require.NoError(t, err)
	assert.Contains(t, out, "Timestep=3.5")
	assert.NotContains(t, out, "Timestep=2.50")

	d.Set("TIMESTEP", 2.5)
	out, err = d.Write()
	require.NoError(t, err)
	assert.Equal(t, baselineDoc, out, "reverting restores the source token")
}

func TestDeleteRemovesLine(t *testing.T) {
	d, err := Parse([]byte(baselineDoc))
	require.NoError(t, err)

	require.True(t, d.Delete("saveinterval"))
	out, err := d.Write()
	require.NoError(t, err)
	assert.Equal(t, strings.Replace(baselineDoc, "SaveInterval=60\n", "", 1), out)
	assert.False(t, d.Delete("SaveInterval"))
}

func TestNewFlagJoinsItsGroup(t *testing.T) {
	d, err := Parse([]byte(baselineDoc))
	require.NoError(t, err)

	d.Set("MaxItr", 30)
	out, err := d.Write()
	require.NoError(t, err)
	assert.Contains(t, out, "MaxItr=30\n")
	assert.Greater(t, strings.Index(out, "MaxItr=30"),
		strings.Index(out, "[ISIS Event Details]"),
		"new flag lands in its registered group")
}

func TestNewFlagCreatesMissingGroup(t *testing.T) {
	d, err := Parse([]byte(baselineDoc))
	require.NoError(t, err)

	d.Set("OccasionalStart", 5)
	out, err := d.Write()
	require.NoError(t, err)
	assert.Contains(t, out, "[ISIS Output Occasional]\nOccasionalStart=5\n")
}

func TestUnknownFlagKeptInMemoryOnly(t *testing.T) {
	d, err := Parse([]byte(baselineDoc))
	require.NoError(t, err)

	d.Set("NotARealFlag", 1)
	out, err := d.Write()
	require.NoError(t, err)
	assert.NotContains(t, out, "NotARealFlag")

	_, ok := d.Get("NotARealFlag")
	assert.True(t, ok, "the attribute itself survives")
}

func TestUnknownFlagFromSourceSurvives(t *testing.T) {
	src := "[ISIS Event Details]\nRunType=Steady\nStart=0\nICsFrom=1\nVendorExtension=7\n"
	d, err := Parse([]byte(src))
	require.NoError(t, err)

	out, err := d.Write()
	require.NoError(t, err)
	assert.Equal(t, src, out, "flags already in the file keep their lines")
}
