package pnl

import (
	"github.com/shopspring/decimal"
)

// lot is a block of purchased units at a fixed unit cost.
type lot struct {
	quantity    int64
	costPerUnit decimal.Decimal
}

// lotQueue is a FIFO of open lots backed by an append-only array.
// Lots before head are fully consumed and headUsed units of items[head]
// have already been sold. Elements are never modified in place.
type lotQueue struct {
	items    []lot
	head     int
	headUsed int64
}

func (q lotQueue) empty() bool {
	return q.head >= len(q.items)
}

// push returns a queue with l appended at the tail.
func (q lotQueue) push(l lot) lotQueue {
	q.items = append(q.items, l)
	return q
}

// front returns the oldest open lot with its still available quantity.
func (q lotQueue) front() lot {
	l := q.items[q.head]
	l.quantity -= q.headUsed
	return l
}

// consume returns a queue with n units taken from the oldest lot.
// n must not exceed front().quantity.
func (q lotQueue) consume(n int64) lotQueue {
	if n == q.front().quantity {
		q.head++
		q.headUsed = 0
		return q
	}
	q.headUsed += n
	return q
}

// open returns the quantity and cost basis of the lots still in the queue.
func (q lotQueue) open() (int64, decimal.Decimal) {
	if q.empty() {
		return 0, decimal.Zero
	}
	var qty int64
	cost := decimal.Zero
	for i := q.head; i < len(q.items); i++ {
		l := q.items[i]
		if i == q.head {
			l = q.front()
		}
		qty += l.quantity
		cost = cost.Add(l.costPerUnit.Mul(decimal.NewFromInt(l.quantity)))
	}
	return qty, cost
}
