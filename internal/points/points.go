// Package points tracks the gamification currency: a monotonic lifetime
// total used for leveling and a spendable balance consumed by reward
// redemptions and punishments. Every mutation is journaled as a transaction
// and snapshotted through the storage layer.
package points

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"momentum/internal/clock"
	"momentum/internal/level"
	"momentum/internal/storage"
)

const snapshotKey = "points-store"

type TransactionType string

const (
	TypeTaskComplete  TransactionType = "task_complete"
	TypeHabitComplete TransactionType = "habit_complete"
	TypeStreakBonus   TransactionType = "streak_bonus"
	TypeRewardRedeem  TransactionType = "reward_redeem"
	TypePunishment    TransactionType = "punishment"
	TypeManual        TransactionType = "manual"
)

type Reward struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Icon          string    `json:"icon"`
	Cost          int       `json:"cost"`
	Category      string    `json:"category"`
	TimesRedeemed int       `json:"timesRedeemed"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
}

type Punishment struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	Icon             string    `json:"icon"`
	TriggerCondition string    `json:"triggerCondition"` // task_incomplete, habit_missed, streak_broken
	PointsPenalty    int       `json:"pointsPenalty"`
	IsActive         bool      `json:"isActive"`
	CreatedAt        time.Time `json:"createdAt"`
}

type Transaction struct {
	ID          string          `json:"id"`
	Amount      int             `json:"amount"`
	Type        TransactionType `json:"type"`
	SourceID    string          `json:"sourceId,omitempty"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type snapshot struct {
	TotalPoints   int           `json:"totalPoints"`
	CurrentPoints int           `json:"currentPoints"`
	Rewards       []Reward      `json:"rewards"`
	Punishments   []Punishment  `json:"punishments"`
	Transactions  []Transaction `json:"transactions"`
}

// Ledger owns the points account and the reward/punishment catalog.
type Ledger struct {
	mu    sync.Mutex
	clk   clock.Clock
	saver *storage.Saver
	state snapshot
}

// NewLedger restores the ledger from its snapshot. A missing or corrupt
// snapshot yields a zeroed account.
func NewLedger(backend storage.Backend, clk clock.Clock) *Ledger {
	l := &Ledger{clk: clk, saver: storage.NewSaver(backend, snapshotKey)}
	if data, ok, err := backend.Load(snapshotKey); err == nil && ok {
		json.Unmarshal(data, &l.state)
	}
	if l.state.TotalPoints < 0 {
		l.state.TotalPoints = 0
	}
	if l.state.CurrentPoints < 0 {
		l.state.CurrentPoints = 0
	}
	return l
}

func (l *Ledger) persist() {
	if data, err := json.Marshal(l.state); err == nil {
		l.saver.Save(data)
	}
}

func (l *Ledger) record(amount int, typ TransactionType, sourceID, description string) {
	l.state.Transactions = append(l.state.Transactions, Transaction{
		ID:          uuid.NewString(),
		Amount:      amount,
		Type:        typ,
		SourceID:    sourceID,
		Description: description,
		CreatedAt:   l.clk.Now(),
	})
}

// AddPoints credits both the lifetime total and the spendable balance.
// Non-positive amounts are ignored.
func (l *Ledger) AddPoints(amount int, typ TransactionType, sourceID, description string) {
	if amount <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.TotalPoints += amount
	l.state.CurrentPoints += amount
	l.record(amount, typ, sourceID, description)
	l.persist()
}

// DeductPoints debits the spendable balance, floored at zero. The lifetime
// total is untouched: deductions never erase earned progress.
func (l *Ledger) DeductPoints(amount int, typ TransactionType, sourceID, description string) {
	if amount <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.CurrentPoints -= amount
	if l.state.CurrentPoints < 0 {
		l.state.CurrentPoints = 0
	}
	l.record(-amount, typ, sourceID, description)
	l.persist()
}

func (l *Ledger) AddReward(name, description, icon string, cost int, category string) Reward {
	l.mu.Lock()
	defer l.mu.Unlock()
	r := Reward{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Icon:        icon,
		Cost:        cost,
		Category:    category,
		IsActive:    true,
		CreatedAt:   l.clk.Now(),
	}
	l.state.Rewards = append(l.state.Rewards, r)
	l.persist()
	return r
}

func (l *Ledger) RemoveReward(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, r := range l.state.Rewards {
		if r.ID == id {
			l.state.Rewards = append(l.state.Rewards[:i], l.state.Rewards[i+1:]...)
			l.persist()
			return
		}
	}
}

// RedeemReward spends the reward's cost. It reports false and mutates
// nothing when the reward is unknown or the balance cannot cover the cost.
func (l *Ledger) RedeemReward(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, r := range l.state.Rewards {
		if r.ID != id {
			continue
		}
		if l.state.CurrentPoints < r.Cost {
			return false
		}
		l.state.CurrentPoints -= r.Cost
		l.state.Rewards[i].TimesRedeemed++
		l.record(-r.Cost, TypeRewardRedeem, r.ID, r.Name)
		l.persist()
		return true
	}
	return false
}

func (l *Ledger) AddPunishment(name, description, icon, trigger string, penalty int) Punishment {
	l.mu.Lock()
	defer l.mu.Unlock()
	p := Punishment{
		ID:               uuid.NewString(),
		Name:             name,
		Description:      description,
		Icon:             icon,
		TriggerCondition: trigger,
		PointsPenalty:    penalty,
		IsActive:         true,
		CreatedAt:        l.clk.Now(),
	}
	l.state.Punishments = append(l.state.Punishments, p)
	l.persist()
	return p
}

func (l *Ledger) RemovePunishment(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, p := range l.state.Punishments {
		if p.ID == id {
			l.state.Punishments = append(l.state.Punishments[:i], l.state.Punishments[i+1:]...)
			l.persist()
			return
		}
	}
}

// ApplyPunishment debits the punishment's penalty from the spendable
// balance. Unknown ids are a no-op.
func (l *Ledger) ApplyPunishment(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.findPunishment(id)
	if !ok || p.PointsPenalty <= 0 {
		return
	}
	l.state.CurrentPoints -= p.PointsPenalty
	if l.state.CurrentPoints < 0 {
		l.state.CurrentPoints = 0
	}
	l.record(-p.PointsPenalty, TypePunishment, p.ID, p.Name)
	l.persist()
}

func (l *Ledger) findPunishment(id string) (Punishment, bool) {
	for _, p := range l.state.Punishments {
		if p.ID == id {
			return p, true
		}
	}
	return Punishment{}, false
}

// Balance returns the lifetime total and the spendable balance.
func (l *Ledger) Balance() (total, current int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.TotalPoints, l.state.CurrentPoints
}

func (l *Ledger) Rewards() []Reward {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Reward, len(l.state.Rewards))
	copy(out, l.state.Rewards)
	return out
}

func (l *Ledger) Punishments() []Punishment {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Punishment, len(l.state.Punishments))
	copy(out, l.state.Punishments)
	return out
}

func (l *Ledger) Transactions() []Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Transaction, len(l.state.Transactions))
	copy(out, l.state.Transactions)
	return out
}

// UserLevel derives the level from the lifetime total. Never stored.
func (l *Ledger) UserLevel() level.UserLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return level.Calculate(l.state.TotalPoints)
}

// Flush blocks until pending snapshot writes reach the backend.
func (l *Ledger) Flush() { l.saver.Flush() }

func (l *Ledger) Close() { l.saver.Close() }
