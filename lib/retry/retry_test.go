package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var (
	errFlaky = errors.New("flaky")
	errFatal = errors.New("fatal")
)

func isFlaky(err error) bool {
	return errors.Is(err, errFlaky)
}

func testPolicy() Policy {
	return Policy{
		MaxTries:  3,
		BaseDelay: time.Millisecond,
		Factor:    2,
		Rand:      func() float64 { return 0 },
	}
}

// sequence returns an op failing with errs in order, then succeeding.
func sequence(calls *int, errs ...error) func(context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		*calls++
		if *calls <= len(errs) {
			return "", errs[*calls-1]
		}
		return "ok", nil
	}
}

func TestDoRecovers(t *testing.T) {
	var calls int
	var notices []Notice
	value, err := Do(context.Background(), testPolicy(), isFlaky, func(n Notice) {
		notices = append(notices, n)
	}, sequence(&calls, errFlaky, errFlaky))

	require.NoError(t, err)
	require.Equal(t, "ok", value)
	require.Equal(t, 3, calls)
	require.Len(t, notices, 2)
	require.Equal(t, 1, notices[0].Attempt)
	require.Equal(t, 3, notices[0].MaxTries)
	require.Equal(t, time.Millisecond, notices[0].Delay)
	require.Equal(t, 2*time.Millisecond, notices[1].Delay)
	require.ErrorIs(t, notices[1].Err, errFlaky)
}

func TestDoExhausts(t *testing.T) {
	var calls int
	var notices int
	_, err := Do(context.Background(), testPolicy(), isFlaky, func(Notice) {
		notices++
	}, sequence(&calls, errFlaky, errFlaky, errFlaky, errFlaky))

	require.ErrorIs(t, err, errFlaky)
	require.Equal(t, 3, calls)
	require.Equal(t, 2, notices)
}

func TestDoTerminalError(t *testing.T) {
	var calls int
	var notices int
	_, err := Do(context.Background(), testPolicy(), isFlaky, func(Notice) {
		notices++
	}, sequence(&calls, errFatal))

	require.ErrorIs(t, err, errFatal)
	require.Equal(t, 1, calls)
	require.Zero(t, notices)
}

func TestDoSingleTry(t *testing.T) {
	policy := testPolicy()
	policy.MaxTries = 0
	var calls int
	_, err := Do(context.Background(), policy, isFlaky, nil, sequence(&calls, errFlaky))
	require.ErrorIs(t, err, errFlaky)
	require.Equal(t, 1, calls)
}

func TestDoCancelledWhileWaiting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	policy := testPolicy()
	policy.BaseDelay = time.Hour
	var calls int
	_, err := Do(ctx, policy, isFlaky, func(Notice) {
		cancel()
	}, sequence(&calls, errFlaky, errFlaky))

	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, calls)
}

func TestNextDelayBounds(t *testing.T) {
	base := 100 * time.Millisecond
	jitterMax := 50 * time.Millisecond

	for _, r := range []float64{0, 0.5, 0.999} {
		policy := Policy{
			BaseDelay: base,
			Factor:    1.2,
			JitterMin: 0,
			JitterMax: jitterMax,
			Rand:      func() float64 { return r },
		}

		lower := float64(base)
		jitterSum := 0.0
		d := base
		for n := 1; n <= 5; n++ {
			d = policy.NextDelay(d)
			lower *= 1.2
			jitterSum = jitterSum*1.2 + float64(jitterMax)
			require.GreaterOrEqual(t, float64(d), lower-10)
			require.LessOrEqual(t, float64(d), lower+jitterSum+10)
		}
	}
}

func TestNextDelayCap(t *testing.T) {
	policy := Policy{
		Factor:   10,
		MaxDelay: time.Second,
		Rand:     func() float64 { return 0 },
	}
	require.Equal(t, time.Second, policy.NextDelay(500*time.Millisecond))
	require.Equal(t, 500*time.Millisecond, policy.NextDelay(50*time.Millisecond))
}
