package domain

import (
	"fmt"
	"time"
)

// Settings is the snapshot of global booking policy read when a reservation is created.
type Settings struct {
	DepositPercent     int
	HalfDayBasisPoints int
	Currency           string
	// PaymentMode is the processor environment deposits are taken in: test or live.
	PaymentMode string
	// SingleDayFullRelaxed lets any slot satisfy a single-day FULL availability query.
	SingleDayFullRelaxed bool
}

const (
	DefaultDepositPercent     = 20
	DefaultHalfDayBasisPoints = 5500
	DefaultCurrency           = "eur"
)

const (
	PaymentModeTest = "test"
	PaymentModeLive = "live"
)

func DefaultSettings() Settings {
	return Settings{
		DepositPercent:       DefaultDepositPercent,
		HalfDayBasisPoints:   DefaultHalfDayBasisPoints,
		Currency:             DefaultCurrency,
		PaymentMode:          PaymentModeTest,
		SingleDayFullRelaxed: true,
	}
}

func (s Settings) Validate() error {
	if s.DepositPercent < 0 || s.DepositPercent > 100 {
		return fmt.Errorf("%w: deposit percent %d", ErrInvalidInput, s.DepositPercent)
	}
	if s.HalfDayBasisPoints <= 0 || s.HalfDayBasisPoints > 10000 {
		return fmt.Errorf("%w: half-day basis points %d", ErrInvalidInput, s.HalfDayBasisPoints)
	}
	if s.Currency == "" {
		return fmt.Errorf("%w: missing currency", ErrInvalidInput)
	}
	if s.PaymentMode != PaymentModeTest && s.PaymentMode != PaymentModeLive {
		return fmt.Errorf("%w: payment mode %q", ErrInvalidInput, s.PaymentMode)
	}
	return nil
}

// Quote is a frozen price split.
type Quote struct {
	TotalCents     int64
	DepositCents   int64
	DepositPercent int
	RemainingCents int64
	Currency       string
}

// PriceReservation computes the total for a resource booking. FULL is priced per day;
// a half-day is a fixed fraction of the FULL day price, not prorated.
func PriceReservation(res Resource, from, to time.Time, part Daypart, s Settings) (Quote, error) {
	if res.PriceFullCents < 0 {
		return Quote{}, fmt.Errorf("%w: negative price on resource %d", ErrInvalidInput, res.ID)
	}

	var total int64
	switch part {
	case DaypartFull:
		total = res.PriceFullCents * int64(DayCount(from, to))
	case DaypartAM, DaypartPM:
		total = (res.PriceFullCents*int64(s.HalfDayBasisPoints) + 5000) / 10000
	default:
		return Quote{}, ErrInvalidDaypart
	}

	return QuoteFromTotal(total, s), nil
}

// QuoteFromTotal applies the deposit percentage to an already agreed total.
func QuoteFromTotal(total int64, s Settings) Quote {
	if total < 0 {
		total = 0
	}
	deposit := (total*int64(s.DepositPercent) + 50) / 100
	if deposit > total {
		deposit = total
	}
	return Quote{
		TotalCents:     total,
		DepositCents:   deposit,
		DepositPercent: s.DepositPercent,
		RemainingCents: total - deposit,
		Currency:       s.Currency,
	}
}
