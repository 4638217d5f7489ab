package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrHoldingNotFound indicates that no holding row exists for the given symbol.
	ErrHoldingNotFound = errors.New("holding not found")

	// ErrTransactionNotFound indicates that a transaction with the given ID does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrCashAccountNotFound indicates that the cash account row is missing.
	ErrCashAccountNotFound = errors.New("cash account not found")

	// ErrSymbolNotFound indicates that a symbol lookup returned no results
	ErrSymbolNotFound = errors.New("symbol not found")
)

// Trade errors. A trade rejected with one of these leaves the ledger untouched.
var (
	// ErrInsufficientHoldings indicates that a SELL asks for more shares than are held.
	ErrInsufficientHoldings = errors.New("insufficient holdings for sale")

	// ErrInsufficientFunds indicates that a BUY or withdrawal exceeds the cash balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrPriceUnavailable indicates that neither a current nor a historical price could be resolved.
	ErrPriceUnavailable = errors.New("price unavailable")
)

// ErrLedgerUnavailable indicates that the ledger store could not be read.
// Callers may substitute a degraded snapshot instead of failing the request.
var ErrLedgerUnavailable = errors.New("ledger unavailable")

// Business logic errors represent validation failures or constraint violations.
var (
	ErrInvalidTradeType = errors.New("invalid trade type")
	ErrInvalidQuantity  = errors.New("invalid quantity")
	ErrInvalidPrice     = errors.New("invalid price")

	// ErrNegativeAmount indicates that an amount field has an invalid non-positive value.
	ErrNegativeAmount = errors.New("amount must be positive")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrInvalidSymbol indicates an empty or malformed ticker symbol.
	ErrInvalidSymbol = errors.New("symbol is required")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
var (
	ErrFailedToRetrieveHoldings     = errors.New("failed to retrieve holdings")
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve transactions")
	ErrFailedToRetrieveCash         = errors.New("failed to retrieve cash account")
	ErrFailedToExecuteTrade         = errors.New("failed to execute trade")
	ErrFailedToAddFunds             = errors.New("failed to add funds")
	ErrFailedToWithdrawFunds        = errors.New("failed to withdraw funds")
	ErrFailedToRetrieveQuote        = errors.New("failed to retrieve quote")
	ErrFailedToRetrieveMarketMovers = errors.New("failed to retrieve market movers")
	ErrFailedToSearchSymbols        = errors.New("failed to search symbols")
	ErrFailedToGetVersionInfo       = errors.New("failed to get version information")
)

// Data integrity errors represent inconsistencies or corruption in the data.
var (
	// ErrDataInconsistency indicates that the data is in an inconsistent state.
	ErrDataInconsistency = errors.New("data inconsistency detected")

	// ErrMissingRequiredField indicates that a required field is missing or empty.
	ErrMissingRequiredField = errors.New("missing required field")
)
