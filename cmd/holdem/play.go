package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/cardstream/holdem/internal/bot"
	"github.com/cardstream/holdem/internal/evaluator"
	"github.com/cardstream/holdem/internal/game"
	"github.com/cardstream/holdem/internal/randutil"
	"github.com/cardstream/holdem/poker"
)

// PlayCmd plays an interactive local table: you are p1, agents fill the rest
type PlayCmd struct {
	Seats      int    `kong:"default='3',help='Number of seats (2-5)'"`
	SmallBlind int    `kong:"default='5',help='Small blind amount'"`
	BigBlind   int    `kong:"default='10',help='Big blind amount'"`
	StartChips int    `kong:"default='1000',help='Starting chip count'"`
	Strategy   string `kong:"default='random',help='Agent strategy (random, call, fold)'"`
	Seed       *int64 `kong:"help='Deterministic RNG seed (optional)'"`
}

type playStyles struct {
	header    lipgloss.Style
	cardRed   lipgloss.Style
	cardBlack lipgloss.Style
	pot       lipgloss.Style
	winner    lipgloss.Style
	dim       lipgloss.Style
}

func newPlayStyles() playStyles {
	return playStyles{
		header: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 2).
			Bold(true),
		cardRed:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
		cardBlack: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true),
		pot:       lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true),
		winner:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true),
		dim:       lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")),
	}
}

func (c *PlayCmd) Run() error {
	if c.Seats < 2 || c.Seats > 5 {
		return fmt.Errorf("seats must be between 2 and 5, got %d", c.Seats)
	}

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}
	rng := randutil.New(seed)

	agent, err := bot.New(c.Strategy, seed)
	if err != nil {
		return err
	}

	seatIDs := make([]string, c.Seats)
	for i := range seatIDs {
		seatIDs[i] = fmt.Sprintf("p%d", i+1)
	}

	table, err := game.NewTable(evaluator.New(), seatIDs, game.TableConfig{
		SmallBlind: c.SmallBlind,
		BigBlind:   c.BigBlind,
		StartChips: c.StartChips,
	})
	if err != nil {
		return err
	}

	styles := newPlayStyles()
	reader := bufio.NewReader(os.Stdin)
	human := seatIDs[0]

	for !table.Ended() {
		if err := table.StartHand(rng.Int64()); err != nil {
			return err
		}
		if table.Ended() {
			break
		}

		fmt.Println()
		fmt.Println(styles.header.Render(fmt.Sprintf("Hand #%d", table.HandNum())))
		hand := table.Hand()

		for !hand.Complete() {
			turn := hand.Turn()
			if turn == human {
				if err := c.promptHuman(table, reader, styles); err != nil {
					return err
				}
			} else {
				action, amount := agent.Act(hand.PublicState(turn))
				if err := table.Apply(turn, action, amount); err != nil {
					// Agents only propose from the legal set; a rejection
					// means the fallback is to fold.
					if err := table.Apply(turn, game.Fold, 0); err != nil {
						return err
					}
				}
				last := hand.History()[len(hand.History())-1]
				c.showAction(last, styles)
			}
			c.drainEvents(table, styles)
		}

		c.showResult(table, styles)

		if !c.askContinue(reader) {
			break
		}
	}

	if table.Ended() {
		c.drainEvents(table, styles)
		fmt.Println(styles.winner.Render("Table over."))
	}
	return nil
}

func (c *PlayCmd) promptHuman(table *game.Table, reader *bufio.Reader, styles playStyles) error {
	hand := table.Hand()
	state := hand.PublicState("p1")

	fmt.Println()
	if len(state.Board) > 0 {
		fmt.Printf("Board: %s\n", c.renderCardStrings(state.Board, styles))
	}
	fmt.Printf("Pot: %s   Your stack: %d\n", styles.pot.Render(strconv.Itoa(state.Pot)), state.Stacks["p1"])
	fmt.Printf("Your hand: %s\n", c.renderCardStrings(state.HoleCards, styles))

	var hints []string
	for _, a := range state.LegalActions {
		switch a {
		case "call":
			hints = append(hints, fmt.Sprintf("call %d", *state.ToCall))
		case "raise":
			hints = append(hints, fmt.Sprintf("raise <%d-%d>", *state.MinRaiseTo, *state.MaxRaiseTo))
		default:
			hints = append(hints, a)
		}
	}
	fmt.Println(styles.dim.Render("Actions: " + strings.Join(hints, ", ")))

	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		fields := strings.Fields(strings.ToLower(strings.TrimSpace(line)))
		if len(fields) == 0 {
			continue
		}

		action, err := game.ParseAction(fields[0])
		if err != nil {
			fmt.Println(styles.dim.Render(err.Error()))
			continue
		}
		amount := 0
		if len(fields) > 1 {
			if amount, err = strconv.Atoi(fields[1]); err != nil {
				fmt.Println(styles.dim.Render("amount must be a number"))
				continue
			}
		}

		if err := table.Apply("p1", action, amount); err != nil {
			fmt.Println(styles.dim.Render(err.Error()))
			continue
		}
		return nil
	}
}

func (c *PlayCmd) showAction(rec game.ActionRecord, styles playStyles) {
	if rec.Action == game.Raise {
		fmt.Printf("%s raises to %d\n", rec.Seat, rec.Amount)
		return
	}
	fmt.Printf("%s %ss\n", rec.Seat, rec.Action.String())
}

func (c *PlayCmd) drainEvents(table *game.Table, styles playStyles) {
	for _, ev := range table.DrainEvents() {
		switch e := ev.(type) {
		case game.DealEvent:
			if len(e.Cards) > 0 {
				fmt.Println()
				fmt.Println(styles.header.Render("*** " + strings.ToUpper(e.Street.String()) + " ***"))
				fmt.Printf("Dealt: %s\n", c.renderCards(e.Cards, styles))
			}
		case game.ShowdownEvent:
			fmt.Println()
			fmt.Println(styles.header.Render("*** SHOWDOWN ***"))
			for _, r := range e.Results {
				fmt.Printf("%s shows %s (%s)\n", r.Seat, c.renderCards(r.Hole, styles), r.Category)
			}
		case game.HandEndEvent:
			label := fmt.Sprintf("%s wins %d", strings.Join(e.Winners, ", "), e.Pot)
			if len(e.Winners) > 1 {
				label = fmt.Sprintf("%s split %d", strings.Join(e.Winners, ", "), e.Pot)
			}
			if e.Category != "" {
				label += " with " + e.Category
			}
			fmt.Println(styles.winner.Render(label))
		case game.TableEndEvent:
			fmt.Println(styles.winner.Render("Winner: " + strings.Join(e.Winners, ", ")))
		}
	}
}

func (c *PlayCmd) showResult(table *game.Table, styles playStyles) {
	fmt.Println()
	for _, id := range table.SeatIDs() {
		fmt.Printf("%s: %d chips\n", id, table.Stacks()[id])
	}
}

func (c *PlayCmd) askContinue(reader *bufio.Reader) bool {
	fmt.Print("Deal next hand? [Y/n] ")
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "" || answer == "y" || answer == "yes"
}

func (c *PlayCmd) renderCards(cards []poker.Card, styles playStyles) string {
	parts := make([]string, len(cards))
	for i, card := range cards {
		if card.IsRed() {
			parts[i] = styles.cardRed.Render(card.String())
		} else {
			parts[i] = styles.cardBlack.Render(card.String())
		}
	}
	return strings.Join(parts, " ")
}

func (c *PlayCmd) renderCardStrings(cards []string, styles playStyles) string {
	parsed, err := poker.ParseCards(cards...)
	if err != nil {
		return strings.Join(cards, " ")
	}
	return c.renderCards(parsed, styles)
}
