package lib

import (
	"context"
	"os"

	"github.com/stripe/stripe-go/v82"
)

var stripeClient *stripe.Client

func GetStripeClient() *stripe.Client {
	if stripeClient != nil {
		return stripeClient
	}
	apiKey := os.Getenv("STRIPE_SECRET_KEY")
	sc := stripe.NewClient(apiKey)
	stripeClient = sc

	return sc
}

func NewStripeClient(c *stripe.Client) {
	stripeClient = c
}

// CreateReservationPaymentLink builds a one-off payment link for a confirmed
// reservation total. Payment capture happens entirely on the collaborator
// side; only the returned token flows back into the reservation record.
func CreateReservationPaymentLink(ref string, total float64, currency string) (string, error) {
	sc := GetStripeClient()
	params := stripe.PaymentLinkCreateParams{
		LineItems: []*stripe.PaymentLinkCreateLineItemParams{
			{
				PriceData: &stripe.PaymentLinkCreateLineItemPriceDataParams{
					Currency:   stripe.String(currency),
					UnitAmount: stripe.Int64(int64(total * 100)),
					ProductData: &stripe.PaymentLinkCreateLineItemPriceDataProductDataParams{
						Name: stripe.String("Reservation " + ref),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		Metadata: map[string]string{
			"reservation_ref": ref,
		},
	}
	paymentLink, err := sc.V1PaymentLinks.Create(context.Background(), &params)
	if err != nil {
		return "", err
	}
	return paymentLink.URL, nil
}
