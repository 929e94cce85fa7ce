package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// ErrNotConfigured indicates the Stripe secret key is missing.
var ErrNotConfigured = errors.New("billing: stripe not configured")

// Pro plan pricing. Fixed at compile time on purpose: there is exactly
// one paid plan and checkout uses inline price data rather than a
// dashboard-managed price object.
const (
	proPlanName        = "Scribo Pro"
	proPlanDescription = "Unlimited AI Generations"
	proPlanAmountCents = 2000
	proPlanInterval    = "month"
)

// Subscription is the provider-neutral slice of a Stripe subscription
// the webhook and billing flows care about.
type Subscription struct {
	ID               string
	CustomerID       string
	PriceID          string
	CurrentPeriodEnd time.Time
}

// Client abstracts the outbound Stripe calls so handlers can be tested
// with fakes.
type Client interface {
	// NewCheckoutSession starts a subscription checkout for the user and
	// returns the hosted page URL. The session metadata carries the user
	// id so the webhook can correlate the asynchronous completion event.
	NewCheckoutSession(ctx context.Context, userID, email string) (string, error)
	// NewPortalSession returns a billing-portal URL for an existing customer.
	NewPortalSession(ctx context.Context, customerID string) (string, error)
	// GetSubscription retrieves the full subscription by its id.
	GetSubscription(ctx context.Context, subscriptionID string) (*Subscription, error)
}

// StripeClient implements Client over the official Stripe SDK.
type StripeClient struct {
	api       *client.API
	returnURL string
}

// NewStripeClient builds a StripeClient. returnURL is where checkout
// and portal flows send the user back to.
func NewStripeClient(secretKey, returnURL string) *StripeClient {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeClient{api: api, returnURL: returnURL}
}

func (c *StripeClient) NewCheckoutSession(ctx context.Context, userID, email string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:                     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL:               stripe.String(c.returnURL),
		CancelURL:                stripe.String(c.returnURL),
		PaymentMethodTypes:       stripe.StringSlice([]string{"card"}),
		BillingAddressCollection: stripe.String("auto"),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyUSD)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(proPlanName),
						Description: stripe.String(proPlanDescription),
					},
					UnitAmount: stripe.Int64(proPlanAmountCents),
					Recurring: &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
						Interval: stripe.String(proPlanInterval),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx
	if email != "" {
		params.CustomerEmail = stripe.String(email)
	}
	params.AddMetadata("userId", userID)

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return sess.URL, nil
}

func (c *StripeClient) NewPortalSession(ctx context.Context, customerID string) (string, error) {
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(c.returnURL),
	}
	params.Context = ctx

	sess, err := c.api.BillingPortalSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create portal session: %w", err)
	}
	return sess.URL, nil
}

func (c *StripeClient) GetSubscription(ctx context.Context, subscriptionID string) (*Subscription, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx

	sub, err := c.api.Subscriptions.Get(subscriptionID, params)
	if err != nil {
		return nil, fmt.Errorf("retrieve subscription: %w", err)
	}
	return fromStripeSubscription(sub), nil
}

func fromStripeSubscription(sub *stripe.Subscription) *Subscription {
	out := &Subscription{
		ID:               sub.ID,
		CurrentPeriodEnd: time.Unix(sub.CurrentPeriodEnd, 0).UTC(),
	}
	if sub.Customer != nil {
		out.CustomerID = sub.Customer.ID
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		out.PriceID = sub.Items.Data[0].Price.ID
	}
	return out
}

var _ Client = (*StripeClient)(nil)
