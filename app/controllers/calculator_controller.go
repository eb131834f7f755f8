package controllers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/ManuelReschke/BlockHolder/internal/pkg/staking"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/viewmodel"
)

var errInvalidNumber = errors.New("please enter valid numbers")

// HandleCalculator renders the staking calculator and, once the form was
// submitted, its estimate.
func HandleCalculator(c *fiber.Ctx) error {
	vm := viewmodel.Calculate{
		Layout:     layoutFor(c, "calculator", "Staking Calculator"),
		Calculator: calculatorForm(c),
	}
	if vm.Calculator.Error != "" {
		c.Status(fiber.StatusUnprocessableEntity)
	}
	return c.Render("calculator", vm, "layouts/main")
}

// calculatorForm reads the calculator query and computes the result when
// an amount was given.
func calculatorForm(c *fiber.Ctx) viewmodel.Calculator {
	form := viewmodel.Calculator{
		Tokens:    staking.Tokens(),
		Durations: staking.Durations(),
		Token:     c.Query("token", "ETH"),
		Amount:    strings.TrimSpace(c.Query("amount")),
		PriceUSD:  strings.TrimSpace(c.Query("price_usd", "0")),
		Rate:      strings.TrimSpace(c.Query("rate_percent", "5")),
		Weeks:     c.Query("weeks", "52"),
	}
	if form.Amount == "" {
		return form
	}

	in, err := parseCalculatorInput(form)
	if err != nil {
		form.Error = err.Error()
		return form
	}
	res, err := staking.Calculate(in)
	if err != nil {
		form.Error = err.Error()
		return form
	}
	form.Result = &res
	return form
}

func parseCalculatorInput(form viewmodel.Calculator) (staking.Input, error) {
	amount, err := decimal.NewFromString(form.Amount)
	if err != nil {
		return staking.Input{}, errInvalidNumber
	}
	price, err := decimal.NewFromString(form.PriceUSD)
	if err != nil {
		return staking.Input{}, errInvalidNumber
	}
	rate, err := decimal.NewFromString(form.Rate)
	if err != nil {
		return staking.Input{}, errInvalidNumber
	}
	weeks, err := strconv.Atoi(form.Weeks)
	if err != nil {
		return staking.Input{}, errInvalidNumber
	}
	return staking.Input{
		Token:       form.Token,
		Amount:      amount,
		PriceUSD:    price,
		RatePercent: rate,
		Weeks:       weeks,
	}, nil
}
