package retry

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"barman/lib/configutil"

	goretry "github.com/sethvargo/go-retry"
)

// Policy bounds how often and how patiently an operation is retried.
type Policy struct {
	MaxTries  int
	BaseDelay time.Duration
	Factor    float64
	JitterMin time.Duration
	JitterMax time.Duration
	// 0 means uncapped
	MaxDelay time.Duration
	// Rand returns a number in [0, 1), it defaults to math/rand.
	Rand func() float64
}

func PolicyFromConfig(cfg configutil.RetryConfig) Policy {
	return Policy{
		MaxTries:  cfg.Tries,
		BaseDelay: configutil.Seconds(cfg.DelaySeconds),
		Factor:    cfg.Backoff,
		JitterMin: configutil.Seconds(cfg.JitterSeconds[0]),
		JitterMax: configutil.Seconds(cfg.JitterSeconds[1]),
		MaxDelay:  configutil.Seconds(cfg.MaxDelaySeconds),
	}
}

// NextDelay grows d by the policy factor, adds jitter, then applies the cap.
func (p Policy) NextDelay(d time.Duration) time.Duration {
	random := p.Rand
	if random == nil {
		random = rand.Float64
	}
	factor := p.Factor
	if factor <= 0 {
		factor = 1
	}
	jitter := p.JitterMin + time.Duration(random()*float64(p.JitterMax-p.JitterMin))
	next := time.Duration(float64(d)*factor) + jitter
	if p.MaxDelay > 0 && next > p.MaxDelay {
		next = p.MaxDelay
	}
	return next
}

// State belongs to a single Do call.
type State struct {
	AttemptsRemaining int
	CurrentDelay      time.Duration
}

// Notice is sent before each wait, only when another attempt will follow.
type Notice struct {
	Attempt  int
	MaxTries int
	Delay    time.Duration
	Err      error
}

func (n Notice) String() string {
	return fmt.Sprintf(
		"attempt %d/%d failed, retrying in %s",
		n.Attempt, n.MaxTries, n.Delay.Round(time.Millisecond),
	)
}

// Do runs op until it succeeds, fails with an error classify rejects, or
// runs out of tries. Waits honour ctx. When tries run out the last error is
// returned wrapped, so errors.Is still sees its cause.
func Do[T any](
	ctx context.Context,
	policy Policy,
	classify func(error) bool,
	notify func(Notice),
	op func(ctx context.Context) (T, error),
) (T, error) {
	maxTries := max(policy.MaxTries, 1)
	state := State{
		AttemptsRemaining: maxTries,
		CurrentDelay:      policy.BaseDelay,
	}

	var result T
	var lastErr error
	attempt := 0
	exhausted := false

	backoff := goretry.BackoffFunc(func() (time.Duration, bool) {
		state.AttemptsRemaining--
		if state.AttemptsRemaining <= 0 {
			exhausted = true
			return 0, true
		}
		delay := state.CurrentDelay
		if notify != nil {
			notify(Notice{
				Attempt:  attempt,
				MaxTries: maxTries,
				Delay:    delay,
				Err:      lastErr,
			})
		}
		state.CurrentDelay = policy.NextDelay(delay)
		return delay, false
	})

	err := goretry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		value, err := op(ctx)
		if err == nil {
			result = value
			return nil
		}
		lastErr = err
		if classify != nil && classify(err) {
			return goretry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		var zero T
		if exhausted {
			return zero, fmt.Errorf("gave up after %d attempts: %w", attempt, err)
		}
		return zero, err
	}
	return result, nil
}
