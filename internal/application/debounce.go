package app

import "time"

// DefaultCooldown минимальный интервал между принятыми сигналами датчика.
const DefaultCooldown = 2 * time.Second

// DebounceGate отсекает повторные сигналы от подпрыгивающего яйца.
type DebounceGate struct {
	cooldown     time.Duration
	lastAccepted time.Time
	accepted     bool
}

// NewDebounceGate создаёт фильтр с заданным интервалом.
func NewDebounceGate(cooldown time.Duration) *DebounceGate {
	return &DebounceGate{cooldown: cooldown}
}

// Accept принимает сигнал, только если с прошлого принятого прошло больше cooldown.
func (g *DebounceGate) Accept(now time.Time) bool {
	if g.accepted && now.Sub(g.lastAccepted) <= g.cooldown {
		return false
	}
	g.lastAccepted = now
	g.accepted = true
	return true
}

// LastAccepted возвращает время последнего принятого сигнала.
func (g *DebounceGate) LastAccepted() (time.Time, bool) {
	return g.lastAccepted, g.accepted
}
