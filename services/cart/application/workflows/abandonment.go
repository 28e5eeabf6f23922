// Package workflows deletes carts that customers stop touching.
//
// One CartAbandonmentWorkflow runs per cart. Every cart.updated event
// signals it, which restarts its timer; when the timer fires the cart is
// expired through the ExpireCart activity.
package workflows

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// SignalCartTouched restarts the abandonment timer.
const SignalCartTouched = "cart-touched"

// defaultMaxSignals bounds the history of one run before it continues as new.
const defaultMaxSignals = 500

// AbandonmentInput starts a CartAbandonmentWorkflow.
type AbandonmentInput struct {
	CartID uuid.UUID     `json:"cart_id"`
	TTL    time.Duration `json:"ttl"`
	// MaxSignals defaults to 500.
	MaxSignals int `json:"max_signals,omitempty"`
}

// WorkflowID is the ID of the abandonment workflow for cartID.
func WorkflowID(cartID uuid.UUID) string {
	return "cart-abandonment-" + cartID.String()
}

// CartAbandonmentWorkflow waits for TTL of inactivity and then expires the
// cart. When the cart was saved while the timer ran out, ExpireCart keeps it
// and the workflow starts waiting again.
func CartAbandonmentWorkflow(ctx workflow.Context, in AbandonmentInput) error {
	log := workflow.GetLogger(ctx)
	touched := workflow.GetSignalChannel(ctx, SignalCartTouched)

	maxSignals := in.MaxSignals
	if maxSignals <= 0 {
		maxSignals = defaultMaxSignals
	}
	actx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2,
			MaximumAttempts:    10,
		},
	})

	signals := 0
	for {
		expired := waitIdle(ctx, touched, in.TTL, &signals, maxSignals)
		if !expired {
			for touched.ReceiveAsync(nil) {
			}
			log.Info("continuing as new", "cart_id", in.CartID, "signals", signals)
			return workflow.NewContinueAsNewError(ctx, CartAbandonmentWorkflow, in)
		}

		var a *Activities
		var gone bool
		if err := workflow.ExecuteActivity(actx, a.ExpireCart, in.CartID, in.TTL).Get(actx, &gone); err != nil {
			return err
		}
		if gone {
			log.Info("cart abandoned", "cart_id", in.CartID, "ttl", in.TTL)
			return nil
		}
		log.Info("cart touched while expiring, waiting again", "cart_id", in.CartID)
	}
}

// waitIdle blocks until ttl passes without a touch and returns true, or
// returns false once signals reaches maxSignals.
func waitIdle(ctx workflow.Context, touched workflow.ReceiveChannel, ttl time.Duration, signals *int, maxSignals int) bool {
	for {
		timerCtx, cancelTimer := workflow.WithCancel(ctx)
		timer := workflow.NewTimer(timerCtx, ttl)

		expired := false
		sel := workflow.NewSelector(ctx)
		sel.AddFuture(timer, func(f workflow.Future) {
			expired = f.Get(timerCtx, nil) == nil
		})
		sel.AddReceive(touched, func(c workflow.ReceiveChannel, _ bool) {
			c.Receive(ctx, nil)
			*signals++
			cancelTimer()
		})
		sel.Select(ctx)

		if expired {
			return true
		}
		if *signals >= maxSignals {
			return false
		}
	}
}

// CartExpirer deletes a cart that has been idle for idleFor and reports
// whether the cart is gone. *services.CartService implements it.
type CartExpirer interface {
	Expire(ctx context.Context, cartID uuid.UUID, idleFor time.Duration) (bool, error)
}

// Activities are the side effects of the abandonment workflow.
type Activities struct {
	Carts CartExpirer
}

// ExpireCart deletes the cart unless it was saved during the last idleFor.
// A missing cart counts as gone.
func (a *Activities) ExpireCart(ctx context.Context, cartID uuid.UUID, idleFor time.Duration) (bool, error) {
	return a.Carts.Expire(ctx, cartID, idleFor)
}

// registry is satisfied by worker.Worker and the Temporal test environment.
type registry interface {
	RegisterWorkflow(w any)
	RegisterActivity(a any)
}

// Register adds the workflow and its activities to w.
func Register(w registry, carts CartExpirer) {
	w.RegisterWorkflow(CartAbandonmentWorkflow)
	w.RegisterActivity(&Activities{Carts: carts})
}

// Starter is the part of client.Client used to touch a cart.
type Starter interface {
	SignalWithStartWorkflow(ctx context.Context, workflowID string, signalName string, signalArg any,
		options client.StartWorkflowOptions, workflow any, workflowArgs ...any) (client.WorkflowRun, error)
}

// TouchCart restarts the abandonment timer of cartID, starting its
// workflow on taskQueue if none is running.
func TouchCart(ctx context.Context, c Starter, taskQueue string, cartID uuid.UUID, ttl time.Duration) error {
	opts := client.StartWorkflowOptions{
		ID:        WorkflowID(cartID),
		TaskQueue: taskQueue,
	}
	in := AbandonmentInput{CartID: cartID, TTL: ttl}
	if _, err := c.SignalWithStartWorkflow(ctx, opts.ID, SignalCartTouched, nil, opts, CartAbandonmentWorkflow, in); err != nil {
		return fmt.Errorf("touch cart %s: %w", cartID, err)
	}
	return nil
}
