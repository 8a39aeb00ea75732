package engine

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timecafe/internal/model"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func at(hour, min int) time.Time {
	return time.Date(2026, 3, 10, hour, min, 0, 0, time.UTC)
}

func TestBillSegmentsNoEvents(t *testing.T) {
	laptop := uuid.New()
	rates := map[uuid.UUID]DeviceRate{
		laptop: {DeviceName: "laptop", HourlyRate: dec("15"), HourlyPlaceCost: dec("2")},
	}

	res := BillSegments(at(9, 0), at(11, 0), laptop, nil, rates)

	require.Len(t, res.Segments, 1)
	seg := res.Segments[0]
	assert.Equal(t, laptop, seg.DeviceID)
	assert.True(t, seg.Minutes.Equal(dec("120")), "minutes = %s", seg.Minutes)
	assert.True(t, seg.Cost.Equal(dec("30")), "cost = %s", seg.Cost)
	assert.True(t, res.TimeCost.Equal(dec("30")))
	assert.True(t, res.PlaceCost.Equal(dec("4")))
}

func TestBillSegmentsDeviceSwitch(t *testing.T) {
	laptop := uuid.New()
	mobile := uuid.New()
	rates := map[uuid.UUID]DeviceRate{
		laptop: {DeviceName: "laptop", HourlyRate: dec("15")},
		mobile: {DeviceName: "mobile", HourlyRate: dec("10")},
	}
	changes := []model.SessionDeviceChange{
		{At: at(9, 30), FromDeviceID: laptop, ToDeviceID: mobile},
	}

	res := BillSegments(at(9, 0), at(10, 0), laptop, changes, rates)

	require.Len(t, res.Segments, 2)
	assert.True(t, res.Segments[0].Minutes.Equal(dec("30")))
	assert.True(t, res.Segments[0].Cost.Equal(dec("7.5")), "laptop cost = %s", res.Segments[0].Cost)
	assert.True(t, res.Segments[1].Minutes.Equal(dec("30")))
	assert.True(t, res.Segments[1].Cost.Equal(dec("5")), "mobile cost = %s", res.Segments[1].Cost)
	assert.True(t, res.TimeCost.Equal(dec("12.5")))
}

func TestBillSegmentsSkipsDegenerateEvents(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	rates := map[uuid.UUID]DeviceRate{
		a: {HourlyRate: dec("10")},
		b: {HourlyRate: dec("20")},
	}
	changes := []model.SessionDeviceChange{
		// at the start — skipped (not after the cursor)
		{At: at(9, 0), FromDeviceID: a, ToDeviceID: b},
		{At: at(9, 30), FromDeviceID: a, ToDeviceID: b},
		// duplicate timestamp — second one is skipped
		{At: at(9, 30), FromDeviceID: b, ToDeviceID: a},
	}

	res := BillSegments(at(9, 0), at(10, 0), a, changes, rates)

	require.Len(t, res.Segments, 2)
	assert.Equal(t, a, res.Segments[0].DeviceID)
	assert.Equal(t, b, res.Segments[1].DeviceID)
}

func TestBillSegmentsStopsBeyondEnd(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	rates := map[uuid.UUID]DeviceRate{a: {HourlyRate: dec("10")}}
	changes := []model.SessionDeviceChange{
		{At: at(11, 0), FromDeviceID: a, ToDeviceID: b}, // after the end
	}

	res := BillSegments(at(9, 0), at(10, 0), a, changes, rates)

	require.Len(t, res.Segments, 1)
	assert.Equal(t, a, res.Segments[0].DeviceID)
	assert.True(t, res.Segments[0].Minutes.Equal(dec("60")))
}

func TestBillSegmentsSortsOutOfOrderEvents(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	rates := map[uuid.UUID]DeviceRate{
		a: {HourlyRate: dec("10")},
		b: {HourlyRate: dec("20")},
		c: {HourlyRate: dec("30")},
	}
	changes := []model.SessionDeviceChange{
		{At: at(9, 40), FromDeviceID: b, ToDeviceID: c},
		{At: at(9, 20), FromDeviceID: a, ToDeviceID: b},
	}

	res := BillSegments(at(9, 0), at(10, 0), a, changes, rates)

	require.Len(t, res.Segments, 3)
	assert.Equal(t, []uuid.UUID{a, b, c},
		[]uuid.UUID{res.Segments[0].DeviceID, res.Segments[1].DeviceID, res.Segments[2].DeviceID})
}

// Segments must be contiguous, non-overlapping, and their minutes must sum to
// the elapsed duration, for any event sequence.
func TestBillSegmentsContiguityInvariant(t *testing.T) {
	devices := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	rates := map[uuid.UUID]DeviceRate{
		devices[0]: {HourlyRate: dec("12")},
		devices[1]: {HourlyRate: dec("8.5")},
		devices[2]: {HourlyRate: dec("20")},
	}
	changes := []model.SessionDeviceChange{
		{At: at(9, 7), FromDeviceID: devices[0], ToDeviceID: devices[1]},
		{At: at(9, 7), FromDeviceID: devices[1], ToDeviceID: devices[2]}, // duplicate ts
		{At: at(10, 13), FromDeviceID: devices[1], ToDeviceID: devices[2]},
		{At: at(8, 0), FromDeviceID: devices[2], ToDeviceID: devices[0]}, // before start
		{At: at(12, 0), FromDeviceID: devices[2], ToDeviceID: devices[0]}, // after end
	}

	start, end := at(9, 0), at(11, 45)
	res := BillSegments(start, end, devices[0], changes, rates)

	require.NotEmpty(t, res.Segments)
	assert.Equal(t, start, res.Segments[0].Start)
	assert.Equal(t, end, res.Segments[len(res.Segments)-1].End)

	total := decimal.Zero
	for i, seg := range res.Segments {
		if i > 0 {
			assert.Equal(t, res.Segments[i-1].End, seg.Start, "segment %d not contiguous", i)
		}
		assert.True(t, seg.End.After(seg.Start))
		total = total.Add(seg.Minutes)
	}
	elapsed := decimal.NewFromInt(end.Sub(start).Milliseconds()).Div(decimal.NewFromInt(60_000))
	assert.True(t, total.Equal(elapsed), "minutes sum %s != elapsed %s", total, elapsed)
}

func TestBillSegmentsUnknownDeviceBillsZero(t *testing.T) {
	res := BillSegments(at(9, 0), at(10, 0), uuid.New(), nil, map[uuid.UUID]DeviceRate{})

	require.Len(t, res.Segments, 1)
	assert.True(t, res.TimeCost.IsZero())
}
