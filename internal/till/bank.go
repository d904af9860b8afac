package till

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// BankTxType classifies a bank ledger entry. Deposits, inits and upward
// adjustments add to the balance; withdrawals and downward adjustments
// subtract.
type BankTxType string

const (
	BankDeposit    BankTxType = "deposit"
	BankWithdraw   BankTxType = "withdraw"
	BankInit       BankTxType = "init"
	BankAdjustUp   BankTxType = "adjustUp"
	BankAdjustDown BankTxType = "adjustDown"
)

func validBankTxType(t BankTxType) bool {
	switch t {
	case BankDeposit, BankWithdraw, BankInit, BankAdjustUp, BankAdjustDown:
		return true
	}
	return false
}

// BankTx is one append-only bank ledger entry.
type BankTx struct {
	ID     string          `json:"id"`
	Type   BankTxType      `json:"type"`
	Amount decimal.Decimal `json:"amount"`
	Worker string          `json:"worker"`
	Note   string          `json:"note"`
	Date   time.Time       `json:"date"`
}

// Bank is the append-only transaction ledger. The balance is a pure fold.
type Bank struct {
	Transactions []BankTx `json:"transactions"`
}

// Post validates and prepends a transaction.
func (b *Bank) Post(txType BankTxType, amount decimal.Decimal, worker, note string, at time.Time) error {
	if !validBankTxType(txType) {
		return errValidation("unknown bank transaction type")
	}
	if !amount.IsPositive() {
		return errValidation("bank amount must be greater than zero")
	}
	tx := BankTx{
		ID:     fmt.Sprintf("tx_%d", at.UnixNano()),
		Type:   txType,
		Amount: amount,
		Worker: strings.TrimSpace(worker),
		Note:   strings.TrimSpace(note),
		Date:   at,
	}
	b.Transactions = append([]BankTx{tx}, b.Transactions...)
	return nil
}

// Balance folds the ledger.
func (b *Bank) Balance() decimal.Decimal {
	sum := decimal.Zero
	for _, tx := range b.Transactions {
		switch tx.Type {
		case BankDeposit, BankInit, BankAdjustUp:
			sum = sum.Add(tx.Amount)
		case BankWithdraw, BankAdjustDown:
			sum = sum.Sub(tx.Amount)
		}
	}
	return sum
}

// Expense is one shift expense. Append/delete only; edits are delete+recreate.
type Expense struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Unit      string          `json:"unit"`
	Qty       decimal.Decimal `json:"qty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Date      time.Time       `json:"date"`
	Note      string          `json:"note"`
}

// Total is qty times unit price.
func (e Expense) Total() decimal.Decimal {
	return e.Qty.Mul(e.UnitPrice)
}

// Expenses is the shift expense list.
type Expenses struct {
	List []Expense `json:"list"`
}

// Add validates and prepends an expense, returning its id.
func (x *Expenses) Add(name, unit string, qty, unitPrice decimal.Decimal, note string, at time.Time) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errValidation("expense name must not be empty")
	}
	if qty.IsNegative() || unitPrice.IsNegative() {
		return "", errValidation("expense quantity and unit price must not be negative")
	}
	e := Expense{
		ID:        fmt.Sprintf("exp_%d", at.UnixNano()),
		Name:      name,
		Unit:      unit,
		Qty:       qty,
		UnitPrice: unitPrice,
		Date:      at,
		Note:      strings.TrimSpace(note),
	}
	x.List = append([]Expense{e}, x.List...)
	return e.ID, nil
}

// Delete removes an expense by id.
func (x *Expenses) Delete(id string) error {
	for i := range x.List {
		if x.List[i].ID == id {
			x.List = append(x.List[:i], x.List[i+1:]...)
			return nil
		}
	}
	return errNotFound("expense")
}

// Total sums qty times unit price over the list.
func (x *Expenses) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, e := range x.List {
		sum = sum.Add(e.Total())
	}
	return sum
}
