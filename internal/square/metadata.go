package square

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/frontdesk/internal/observability/logger"
)

// SellerMetadata is what we learn about the merchant after an exchange.
// Every field is best-effort: a sub-call failing leaves its fields zero.
type SellerMetadata struct {
	MerchantID        string
	BusinessName      string
	Country           string
	Currency          string
	DefaultLocationID string
	LocationTimezone  string
	SellerWritable    bool // booking profile allows seller-level writes
}

type merchantResponse struct {
	Merchant struct {
		ID           string `json:"id"`
		BusinessName string `json:"business_name"`
		Country      string `json:"country"`
		Currency     string `json:"currency"`
		MainLocation string `json:"main_location_id"`
	} `json:"merchant"`
}

type locationsResponse struct {
	Locations []struct {
		ID       string `json:"id"`
		Status   string `json:"status"`
		Timezone string `json:"timezone"`
	} `json:"locations"`
}

type bookingProfileResponse struct {
	BusinessBookingProfile struct {
		SellerID                     string `json:"seller_id"`
		BookingEnabled               bool   `json:"booking_enabled"`
		AllowUserCancel              bool   `json:"allow_user_cancel"`
		BusinessAppointmentSettings  any    `json:"business_appointment_settings"`
		CustomerTimezoneChoice       string `json:"customer_timezone_choice"`
		BookingPolicy                string `json:"booking_policy"`
		SupportSellerLevelWrites     bool   `json:"support_seller_level_writes"`
		SupportsSellerLevelWritesAlt bool   `json:"supports_seller_level_writes"`
	} `json:"business_booking_profile"`
}

// FetchSellerMetadata enriches the freshly exchanged tokens with
// merchant, location and booking-profile info. Sub-calls run
// concurrently and may fail independently; the OAuth completion must
// succeed with whatever subset came back.
func (c *Client) FetchSellerMetadata(ctx context.Context, accessToken, environment string) SellerMetadata {
	log := logger.From(ctx).With(logger.Component("square.metadata"))

	var (
		md   SellerMetadata
		mr   merchantResponse
		lr   locationsResponse
		bp   bookingProfileResponse
		okMr bool
		okLr bool
		okBp bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := c.get(gctx, environment, "/v2/merchants/me", accessToken, &mr); err != nil {
			log.Warn("merchant lookup failed", logger.Err(err))
			return nil
		}
		okMr = true
		return nil
	})
	g.Go(func() error {
		if err := c.get(gctx, environment, "/v2/locations", accessToken, &lr); err != nil {
			log.Warn("locations lookup failed", logger.Err(err))
			return nil
		}
		okLr = true
		return nil
	})
	g.Go(func() error {
		if err := c.get(gctx, environment, "/v2/bookings/business-booking-profile", accessToken, &bp); err != nil {
			log.Warn("booking profile lookup failed", logger.Err(err))
			return nil
		}
		okBp = true
		return nil
	})
	_ = g.Wait()

	if okMr {
		md.MerchantID = mr.Merchant.ID
		md.BusinessName = mr.Merchant.BusinessName
		md.Country = mr.Merchant.Country
		md.Currency = mr.Merchant.Currency
		md.DefaultLocationID = mr.Merchant.MainLocation
	}
	if okLr {
		for _, loc := range lr.Locations {
			if loc.Status != "ACTIVE" {
				continue
			}
			if md.DefaultLocationID == "" {
				md.DefaultLocationID = loc.ID
			}
			if loc.ID == md.DefaultLocationID {
				md.LocationTimezone = loc.Timezone
			}
		}
	}
	if okBp {
		md.SellerWritable = bp.BusinessBookingProfile.SupportSellerLevelWrites ||
			bp.BusinessBookingProfile.SupportsSellerLevelWritesAlt
	}
	return md
}
