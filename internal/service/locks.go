package service

import "sync"

// LedgerLocks serializes check-then-act sequences on the ledger.
// Lock order is symbol first, then account. Services sharing a ledger must share one LedgerLocks.
type LedgerLocks struct {
	mu      sync.Mutex
	symbols map[string]*sync.Mutex
	account sync.Mutex
}

// NewLedgerLocks returns an empty lock table.
func NewLedgerLocks() *LedgerLocks {
	return &LedgerLocks{symbols: make(map[string]*sync.Mutex)}
}

func (l *LedgerLocks) symbol(symbol string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.symbols[symbol]
	if !ok {
		m = &sync.Mutex{}
		l.symbols[symbol] = m
	}
	return m
}

// LockSymbol takes the writer lock of symbol and, when withAccount is set, the account lock.
// The returned func releases both.
func (l *LedgerLocks) LockSymbol(symbol string, withAccount bool) func() {
	m := l.symbol(symbol)
	m.Lock()
	if withAccount {
		l.account.Lock()
	}
	return func() {
		if withAccount {
			l.account.Unlock()
		}
		m.Unlock()
	}
}

// LockAccount takes the account lock only.
func (l *LedgerLocks) LockAccount() func() {
	l.account.Lock()
	return l.account.Unlock
}
