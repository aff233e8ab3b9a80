package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Timer_ElapsedGrows(t *testing.T) {
	timer := New()
	time.Sleep(10 * time.Millisecond)
	assert.GreaterOrEqual(t, timer.ElapsedMs(), int64(10))
}

func Test_Timer_StopReturnsDuration(t *testing.T) {
	timer := New()

	timer.Start("load")
	time.Sleep(15 * time.Millisecond)
	d := timer.Stop("load")

	assert.GreaterOrEqual(t, d, 15*time.Millisecond)
	assert.Equal(t, d, timer.Phases()["load"])
}

func Test_Timer_StopUnknownPhase(t *testing.T) {
	timer := New()
	assert.Equal(t, time.Duration(0), timer.Stop("never"))
	assert.Empty(t, timer.Phases())
}

func Test_Timer_RepeatedPhaseAccumulates(t *testing.T) {
	timer := New()

	for i := 0; i < 2; i++ {
		timer.Start("score")
		time.Sleep(5 * time.Millisecond)
		timer.Stop("score")
	}

	assert.GreaterOrEqual(t, timer.Phases()["score"], 10*time.Millisecond)
	assert.Equal(t, []string{"score"}, timer.Names())
}

func Test_Timer_MeasureAndOrder(t *testing.T) {
	timer := New()

	func() {
		defer timer.Measure("filter")()
	}()
	func() {
		defer timer.Measure("rank")()
	}()

	assert.Equal(t, []string{"filter", "rank"}, timer.Names())
}

func Test_Timer_FieldsSortedPairs(t *testing.T) {
	timer := New()
	timer.Start("rank")
	timer.Stop("rank")
	timer.Start("filter")
	timer.Stop("filter")

	fields := timer.Fields()
	require.Len(t, fields, 4)
	assert.Equal(t, "filter_ms", fields[0])
	assert.Equal(t, "rank_ms", fields[2])
	assert.IsType(t, int64(0), fields[1])
}

func Test_Timer_PhasesReturnsCopy(t *testing.T) {
	timer := New()
	timer.Start("a")
	timer.Stop("a")

	p := timer.Phases()
	p["b"] = time.Second

	assert.NotContains(t, timer.Phases(), "b")
}
