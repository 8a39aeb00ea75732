// Package engine is the pure financial computation core: segmented time
// billing, invoice assembly, customer balance reconciliation, ledger balance
// derivation, auto-savings scheduling and partner profit distribution.
//
// Everything here is a deterministic function over in-memory snapshots of
// history. The engine performs no I/O and caches nothing across calls; the
// service layer owns guards, persistence and ledger appends.
package engine

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"timecafe/internal/model"
)

var sixty = decimal.NewFromInt(60)

// DeviceRate is the pricing snapshot for one device at billing time.
type DeviceRate struct {
	DeviceName      string
	HourlyRate      decimal.Decimal
	HourlyPlaceCost decimal.Decimal
}

// DeviceChange is one device-switch event inside a stay.
type DeviceChange struct {
	At           time.Time
	FromDeviceID uuid.UUID
	ToDeviceID   uuid.UUID
}

// Segment is a sub-interval of a stay billed at one device's hourly rate.
// Cost = (Minutes/60) × HourlyRate, kept unrounded; rounding happens exactly
// once, at invoice finalization.
type Segment struct {
	DeviceID        uuid.UUID
	DeviceName      string
	Start           time.Time
	End             time.Time
	Minutes         decimal.Decimal
	HourlyRate      decimal.Decimal
	HourlyPlaceCost decimal.Decimal
	Cost            decimal.Decimal
	PlaceCost       decimal.Decimal
}

// BillResult is the output of the segmented time biller: ordered, contiguous,
// non-overlapping segments covering exactly [start,end].
type BillResult struct {
	Segments  []Segment
	TimeCost  decimal.Decimal
	PlaceCost decimal.Decimal
}

// BillSegments splits the elapsed time of a stay into per-device-rate
// intervals. Events at or before the running cursor are skipped (degenerate
// or out-of-order data); the walk stops at the first event beyond end; a
// trailing open segment closes the interval when the last event precedes end.
// Zero events yield exactly one full-duration segment.
func BillSegments(start, end time.Time, deviceID uuid.UUID, changes []model.SessionDeviceChange, rates map[uuid.UUID]DeviceRate) BillResult {
	events := make([]DeviceChange, 0, len(changes))
	for _, c := range changes {
		events = append(events, DeviceChange{At: c.At, FromDeviceID: c.FromDeviceID, ToDeviceID: c.ToDeviceID})
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].At.Before(events[j].At) })

	var res BillResult
	res.TimeCost = decimal.Zero
	res.PlaceCost = decimal.Zero

	cursor := start
	device := deviceID

	for _, ev := range events {
		if !ev.At.After(cursor) {
			continue // degenerate or out-of-order event
		}
		if ev.At.After(end) {
			break
		}
		res.append(makeSegment(cursor, ev.At, device, rates))
		cursor = ev.At
		device = ev.ToDeviceID
	}

	if cursor.Before(end) {
		res.append(makeSegment(cursor, end, device, rates))
	}

	return res
}

func (r *BillResult) append(seg Segment) {
	r.Segments = append(r.Segments, seg)
	r.TimeCost = r.TimeCost.Add(seg.Cost)
	r.PlaceCost = r.PlaceCost.Add(seg.PlaceCost)
}

func makeSegment(from, to time.Time, deviceID uuid.UUID, rates map[uuid.UUID]DeviceRate) Segment {
	rate := rates[deviceID] // unknown device bills at zero
	// Millisecond-precision fractional minutes, divided with decimal
	// arithmetic so no rounding creeps in before invoice finalization.
	minutes := decimal.NewFromInt(to.Sub(from).Milliseconds()).Div(decimal.NewFromInt(60_000))
	hours := minutes.Div(sixty)
	return Segment{
		DeviceID:        deviceID,
		DeviceName:      rate.DeviceName,
		Start:           from,
		End:             to,
		Minutes:         minutes,
		HourlyRate:      rate.HourlyRate,
		HourlyPlaceCost: rate.HourlyPlaceCost,
		Cost:            hours.Mul(rate.HourlyRate),
		PlaceCost:       hours.Mul(rate.HourlyPlaceCost),
	}
}
