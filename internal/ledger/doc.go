// Package ledger holds the pure accounting rules of the portfolio: weighted-average cost basis,
// FIFO realized gains and the valuation snapshot.
//
// Nothing in this package performs I/O. Callers load holdings, transactions, cash and prices,
// and hand them in; results are computed exactly with decimal arithmetic and rounded to two
// decimals only when a snapshot is assembled.
package ledger
