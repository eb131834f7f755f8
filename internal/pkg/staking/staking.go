// Package staking estimates staking rewards with weekly compounding.
package staking

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount   = errors.New("amount must be greater than zero")
	ErrInvalidPrice    = errors.New("price must not be negative")
	ErrInvalidRate     = errors.New("reward rate must not be negative")
	ErrInvalidDuration = errors.New("unsupported staking duration")
	ErrUnknownToken    = errors.New("unknown token")
)

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var tokens = []Option{
	{Value: "ETH", Label: "Ethereum"},
	{Value: "BTC", Label: "Bitcoin"},
	{Value: "SOL", Label: "Solana"},
	{Value: "DOT", Label: "Polkadot"},
	{Value: "ADA", Label: "Cardano"},
	{Value: "AVAX", Label: "Avalanche"},
	{Value: "MATIC", Label: "Polygon"},
	{Value: "LUNA", Label: "Terra"},
	{Value: "NEAR", Label: "NEAR Protocol"},
	{Value: "ALGO", Label: "Algorand"},
}

var durations = []int{1, 2, 4, 8, 12, 24, 52}

// Tokens returns the selectable tokens.
func Tokens() []Option {
	return append([]Option(nil), tokens...)
}

// Durations returns the selectable durations in weeks.
func Durations() []Option {
	out := make([]Option, 0, len(durations))
	for _, w := range durations {
		label := fmt.Sprintf("%d Weeks", w)
		if w == 1 {
			label = "1 Week"
		}
		out = append(out, Option{Value: fmt.Sprint(w), Label: label})
	}
	return out
}

type Input struct {
	Token       string          `json:"token" form:"token"`
	Amount      decimal.Decimal `json:"amount" form:"amount"`
	PriceUSD    decimal.Decimal `json:"price_usd" form:"price_usd"`
	RatePercent decimal.Decimal `json:"rate_percent" form:"rate_percent"`
	Weeks       int             `json:"weeks" form:"weeks"`
}

// Point is one week of the balance chart.
type Point struct {
	Week       int             `json:"week"`
	BalanceUSD decimal.Decimal `json:"balance_usd"`
	RewardUSD  decimal.Decimal `json:"reward_usd"`
}

type Result struct {
	Token         string          `json:"token"`
	Weeks         int             `json:"weeks"`
	RewardsTokens decimal.Decimal `json:"rewards_tokens"`
	RewardsUSD    decimal.Decimal `json:"rewards_usd"`
	Points        []Point         `json:"points"`
}

var weeksPerYear = decimal.NewFromInt(52)

// Calculate compounds RatePercent (annual) weekly over Weeks. Token amounts
// are rounded to 4 places and USD values to cents.
func Calculate(in Input) (Result, error) {
	if err := in.validate(); err != nil {
		return Result{}, err
	}

	weekly := in.RatePercent.Div(decimal.NewFromInt(100)).Div(weeksPerYear)
	factor := decimal.NewFromInt(1).Add(weekly)

	balance := in.Amount
	points := make([]Point, 0, in.Weeks)
	for week := 1; week <= in.Weeks; week++ {
		balance = balance.Mul(factor)
		points = append(points, Point{
			Week:       week,
			BalanceUSD: balance.Mul(in.PriceUSD).Round(2),
			RewardUSD:  balance.Sub(in.Amount).Mul(in.PriceUSD).Round(2),
		})
	}

	rewards := balance.Sub(in.Amount)
	return Result{
		Token:         strings.ToUpper(in.Token),
		Weeks:         in.Weeks,
		RewardsTokens: rewards.Round(4),
		RewardsUSD:    rewards.Mul(in.PriceUSD).Round(2),
		Points:        points,
	}, nil
}

func (in Input) validate() error {
	if !knownToken(in.Token) {
		return fmt.Errorf("%w: %q", ErrUnknownToken, in.Token)
	}
	if !in.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if in.PriceUSD.IsNegative() {
		return ErrInvalidPrice
	}
	if in.RatePercent.IsNegative() {
		return ErrInvalidRate
	}
	for _, w := range durations {
		if w == in.Weeks {
			return nil
		}
	}
	return fmt.Errorf("%w: %d weeks", ErrInvalidDuration, in.Weeks)
}

func knownToken(symbol string) bool {
	for _, t := range tokens {
		if strings.EqualFold(t.Value, symbol) {
			return true
		}
	}
	return false
}
