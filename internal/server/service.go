package server

import (
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cardstream/holdem/internal/bot"
	"github.com/cardstream/holdem/internal/game"
	"github.com/cardstream/holdem/internal/randutil"
	"github.com/cardstream/holdem/internal/replay"
	"github.com/cardstream/holdem/internal/session"
)

// GameService owns the sessions and drives each table: it applies human
// moves, lets agents play every seat no human holds, and fans state and
// events out to the connected clients. All table mutation happens with the
// session lock held.
type GameService struct {
	cfg    *ServerConfig
	store  *session.Store
	logger *log.Logger
	replay *replay.Buffer // nil when recording is disabled

	rngMu sync.Mutex
	rng   *rand.Rand // hand seeds

	connMu sync.Mutex
	conns  map[string]map[string]*Connection // session id -> seat -> conn
	agents map[string]bot.Agent              // session id -> agent
}

// NewGameService creates the service. A nil replay buffer disables recording.
func NewGameService(cfg *ServerConfig, store *session.Store, logger *log.Logger, buf *replay.Buffer) *GameService {
	seed := cfg.AI.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &GameService{
		cfg:    cfg,
		store:  store,
		logger: logger.WithPrefix("game"),
		replay: buf,
		rng:    randutil.New(seed),
		conns:  make(map[string]map[string]*Connection),
		agents: make(map[string]bot.Agent),
	}
}

// CreateTable makes a new session and seats the creator as host
func (s *GameService) CreateTable(userKey string) (sessionID, seat string, err error) {
	sess, err := s.store.Create(userKey)
	if err != nil {
		return "", "", err
	}
	s.logger.Info("Table created", "session", sess.ID)
	return sess.ID, sess.Host, nil
}

// JoinTable seats a player at an existing table
func (s *GameService) JoinTable(sessionID, userKey string) (string, error) {
	seat, err := s.store.Join(sessionID, userKey)
	if err != nil {
		return "", err
	}
	s.logger.Info("Seat joined", "session", sessionID, "seat", seat)
	return seat, nil
}

// StartTable deals the first hand. Only the host seat may start.
func (s *GameService) StartTable(sessionID, seat string) error {
	sess, err := s.store.Get(sessionID)
	if err != nil {
		return err
	}

	sess.Lock()
	defer sess.Unlock()

	if seat != sess.Host {
		return session.ErrNotHost
	}
	if sess.Started {
		return errors.New("table already started")
	}

	sess.Started = true
	if err := sess.Table.StartHand(s.nextSeed()); err != nil {
		return err
	}
	s.logger.Info("Table started", "session", sessionID, "hand", sess.Table.HandNum())

	s.broadcast(sess)
	s.driveBots(sess)
	return nil
}

// NextHand deals the following hand once the current one is complete.
// Only the host seat may continue the table.
func (s *GameService) NextHand(sessionID, seat string) error {
	sess, err := s.store.Get(sessionID)
	if err != nil {
		return err
	}

	sess.Lock()
	defer sess.Unlock()

	if seat != sess.Host {
		return session.ErrNotHost
	}
	if !sess.Started {
		return errors.New("table not started")
	}
	if sess.Ended {
		return session.ErrEnded
	}

	if err := sess.Table.StartHand(s.nextSeed()); err != nil {
		return err
	}
	if sess.Table.Ended() {
		sess.Ended = true
		s.logger.Info("Table ended", "session", sessionID)
	}

	s.broadcast(sess)
	s.driveBots(sess)
	return nil
}

// HandleMove applies one human action. Validation failures come back as
// typed errors for the caller to report; they do not disturb the hand.
func (s *GameService) HandleMove(sessionID, seat string, action game.Action, amount int) error {
	sess, err := s.store.Get(sessionID)
	if err != nil {
		return err
	}

	sess.Lock()
	defer sess.Unlock()

	if !sess.Started || sess.Table.Hand() == nil {
		return errors.New("no hand in progress")
	}

	if err := s.apply(sess, seat, action, amount); err != nil {
		return err
	}

	s.broadcast(sess)
	s.driveBots(sess)
	return nil
}

// apply runs one action through the table and records it for training.
// Invariant failures are fatal for the session.
func (s *GameService) apply(sess *session.Session, seat string, action game.Action, amount int) error {
	err := sess.Table.Apply(seat, action, amount)
	if err != nil {
		var ierr *game.InvariantError
		if errors.As(err, &ierr) {
			s.logger.Error("Invariant violated, ending session", "session", sess.ID, "error", err)
			sess.Ended = true
		}
		return err
	}

	if s.replay != nil {
		hand := sess.Table.Hand()
		s.replay.Add(replay.Record{
			"session_id": sess.ID,
			"hand_num":   sess.Table.HandNum(),
			"player_id":  seat,
			"street":     hand.Street().String(),
			"action":     action.String(),
			"amount":     amount,
			"pot":        hand.Pot(),
		})
	}
	return nil
}

// driveBots lets agents act until a human is on turn or the hand ends.
// Caller holds the session lock.
func (s *GameService) driveBots(sess *session.Session) {
	hand := sess.Table.Hand()
	if hand == nil {
		return
	}

	delay := time.Duration(s.cfg.AI.TurnDelayMs) * time.Millisecond
	agent := s.agentFor(sess.ID)

	for !hand.Complete() {
		turn := hand.Turn()
		if turn == "" || sess.Humans[turn] {
			return
		}

		if delay > 0 {
			time.Sleep(delay)
		}

		action, amount := agent.Act(hand.PublicState(turn))
		if err := s.apply(sess, turn, action, amount); err != nil {
			// An agent proposing an illegal move is a bug; fold it out
			// rather than wedging the table.
			s.logger.Warn("Agent move rejected, folding", "session", sess.ID, "seat", turn, "action", action.String(), "error", err)
			if err := s.apply(sess, turn, game.Fold, 0); err != nil {
				s.logger.Error("Agent fold rejected, abandoning hand", "session", sess.ID, "seat", turn, "error", err)
				return
			}
		}
		s.broadcast(sess)
	}
}

func (s *GameService) agentFor(sessionID string) bot.Agent {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	if agent, ok := s.agents[sessionID]; ok {
		return agent
	}
	agent, err := bot.New(s.cfg.AI.Strategy, s.nextSeed())
	if err != nil {
		// Config is validated at startup; fall back to the baseline.
		agent = &bot.CallBot{}
	}
	s.agents[sessionID] = agent
	return agent
}

func (s *GameService) nextSeed() int64 {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Int64()
}

// Attach registers a connection and marks its seat human. The client gets a
// snapshot immediately so reconnects resync without waiting for an event.
func (s *GameService) Attach(conn *Connection) error {
	sess, err := s.store.Get(conn.sessionID)
	if err != nil {
		return err
	}

	s.connMu.Lock()
	if s.conns[conn.sessionID] == nil {
		s.conns[conn.sessionID] = make(map[string]*Connection)
	}
	if prev := s.conns[conn.sessionID][conn.seat]; prev != nil {
		_ = prev.Close()
	}
	s.conns[conn.sessionID][conn.seat] = conn
	s.connMu.Unlock()

	sess.Lock()
	defer sess.Unlock()
	sess.Humans[conn.seat] = true

	if hand := sess.Table.Hand(); hand != nil {
		_ = conn.Send(NewStateMessage(hand.PublicState(conn.seat)))
	}
	return nil
}

// Detach unregisters a connection. The seat goes back to the agents, which
// may need to act immediately if the leaver was on turn.
func (s *GameService) Detach(conn *Connection) {
	s.connMu.Lock()
	if seats, ok := s.conns[conn.sessionID]; ok && seats[conn.seat] == conn {
		delete(seats, conn.seat)
		if len(seats) == 0 {
			delete(s.conns, conn.sessionID)
		}
	}
	s.connMu.Unlock()

	sess, err := s.store.Get(conn.sessionID)
	if err != nil {
		return
	}

	sess.Lock()
	defer sess.Unlock()
	sess.Humans[conn.seat] = false
	if sess.Started && !sess.Ended {
		s.driveBots(sess)
	}
}

// broadcast drains pending events to every connection, then sends each seat
// its own view of the hand. Caller holds the session lock.
func (s *GameService) broadcast(sess *session.Session) {
	events := sess.Table.DrainEvents()
	hand := sess.Table.Hand()

	s.connMu.Lock()
	conns := make([]*Connection, 0, len(s.conns[sess.ID]))
	for _, c := range s.conns[sess.ID] {
		conns = append(conns, c)
	}
	s.connMu.Unlock()

	for _, c := range conns {
		for _, ev := range events {
			_ = c.Send(NewEventMessage(ev))
		}
		if hand != nil {
			_ = c.Send(NewStateMessage(hand.PublicState(c.Seat())))
		}
	}
}

// SaveReplay flushes the replay buffer to the configured path
func (s *GameService) SaveReplay() error {
	if s.replay == nil {
		return nil
	}
	return s.replay.Save(s.cfg.Replay.Path)
}
