// Package setup implements the terminal configuration wizard.
package setup

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1).
			MarginBottom(0)
)

type configFile struct {
	Platform          string `yaml:"platform"`
	Pair              string `yaml:"pair"`
	InitialRisk       string `yaml:"initial_risk_balance"`
	InitialQuote      string `yaml:"initial_quote_balance"`
	ResetRisk         string `yaml:"reset_risk_balance"`
	ResetQuote        string `yaml:"reset_quote_balance"`
	PollPriceInterval string `yaml:"poll_price_interval"`
	ListenAddr        string `yaml:"listen_addr"`
}

// RunTUI launches the terminal configuration wizard and writes papervault.yaml.
func RunTUI() error {
	var (
		platform string
		pair     string
		confirm  bool
	)

	// defaults
	initialRisk := "0.001"
	initialQuote := "100"
	resetRisk := "0.0032"
	resetQuote := "150"
	pollInterval := "1m"
	listenAddr := ":8080"
	pair = "BTC_USDT"

	fmt.Print("\033[H\033[2J") // Clear screen
	fmt.Println(headerStyle.Render("PAPERVAULT CONFIG WIZARD"))
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Paper trading without touching the exchange.\n"))

	fmt.Println(stepStyle.Render("STEP 1: PRICE FEED"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select price feed platform").
				Options(
					huh.NewOption("Binance", "binance"),
					huh.NewOption("Bybit", "bybit"),
					huh.NewOption("Hyperliquid", "hyperliquid"),
				).
				Value(&platform),
		),
	).Run()
	if err != nil {
		return err
	}

	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("PAPERVAULT CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 2: ASSET"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Trading Pair").
				Description("Must contain underscore (e.g. BTC_USDT)").
				Validate(validatePair).
				Value(&pair),
		),
	).Run()
	if err != nil {
		return err
	}

	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("PAPERVAULT CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 3: BALANCES"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Initial risk balance").
				Validate(validateDecimal).
				Value(&initialRisk),
			huh.NewInput().
				Title("Initial quote balance").
				Validate(validateDecimal).
				Value(&initialQuote),
			huh.NewInput().
				Title("RESET target risk balance").
				Validate(validateDecimal).
				Value(&resetRisk),
			huh.NewInput().
				Title("RESET target quote balance").
				Validate(validateDecimal).
				Value(&resetQuote),
		),
	).Run()
	if err != nil {
		return err
	}

	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("PAPERVAULT CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 4: RUNTIME"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Poll price interval").
				Description("e.g. 30s, 1m, 5m").
				Validate(validateDuration).
				Value(&pollInterval),
			huh.NewInput().
				Title("Dashboard listen address").
				Value(&listenAddr),
		),
	).Run()
	if err != nil {
		return err
	}

	conf := configFile{
		Platform:          platform,
		Pair:              strings.ToUpper(pair),
		InitialRisk:       initialRisk,
		InitialQuote:      initialQuote,
		ResetRisk:         resetRisk,
		ResetQuote:        resetQuote,
		PollPriceInterval: pollInterval,
		ListenAddr:        listenAddr,
	}

	payload, err := yaml.Marshal(conf)
	if err != nil {
		return err
	}

	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("PAPERVAULT CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 5: CONFIRM"))
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render(string(payload)))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Write papervault.yaml?").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return err
	}
	if !confirm {
		fmt.Println("aborted, nothing written")
		return nil
	}

	if err := os.WriteFile("papervault.yaml", payload, 0o644); err != nil {
		return err
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Render("papervault.yaml written. Start the vault with:"))
	fmt.Println("  papervault -config papervault.yaml")
	return nil
}

func validatePair(s string) error {
	parts := strings.Split(s, "_")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("pair must look like BTC_USDT")
	}
	return nil
}

func validateDecimal(s string) error {
	value, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("not a number")
	}
	if value.IsNegative() {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

func validateDuration(s string) error {
	if _, err := time.ParseDuration(s); err != nil {
		return fmt.Errorf("not a duration")
	}
	return nil
}
