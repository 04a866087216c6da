package layout

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/seatmap-studio/internal/geometry"
	"github.com/iliyamo/seatmap-studio/internal/model"
)

func seatAt(t *testing.T, l *Layout, row, num string, x, y float64) model.Seat {
	t.Helper()
	s, err := l.AddSeat(model.Seat{Row: row, Number: num, X: x, Y: y, SectionID: model.DefaultSectionID})
	require.NoError(t, err)
	return s
}

func TestNewLayoutHasDefaultSection(t *testing.T) {
	l := New("")
	assert.Equal(t, DefaultName, l.Name)
	secs := l.Sections()
	require.Len(t, secs, 1)
	assert.Equal(t, model.DefaultSectionID, secs[0].ID)
	assert.Zero(t, l.SeatCount())
}

func TestAddSeatRejectsUnknownSection(t *testing.T) {
	l := New("x")
	_, err := l.AddSeat(model.Seat{Row: "A", Number: "1", SectionID: "nope"})
	assert.ErrorIs(t, err, ErrSectionNotFound)
	assert.Zero(t, l.SeatCount())
}

func TestAddSeatGeneratesIDAndDefaultsType(t *testing.T) {
	l := New("x")
	s, err := l.AddSeat(model.Seat{Row: "A", Number: "1"})
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, model.SeatStandard, s.Type)
}

func TestSeatAtToleranceScalesWithZoom(t *testing.T) {
	l := New("x")
	seatAt(t, l, "A", "1", 100, 100)

	_, ok := l.SeatAt(geometry.Pt(111, 100), 1)
	assert.True(t, ok, "inside 12px at zoom 1")

	_, ok = l.SeatAt(geometry.Pt(111, 100), 2)
	assert.False(t, ok, "tolerance is 6 world units at zoom 2")

	_, ok = l.SeatAt(geometry.Pt(120, 100), 0.5)
	assert.True(t, ok, "tolerance is 24 world units at zoom 0.5")

	_, ok = l.SeatAt(geometry.Pt(100, 112), 1)
	assert.True(t, ok, "edge is inclusive")
}

func TestSeatAtPicksNearest(t *testing.T) {
	l := New("x")
	a := seatAt(t, l, "A", "1", 100, 100)
	b := seatAt(t, l, "A", "2", 110, 100)
	got, ok := l.SeatAt(geometry.Pt(103, 100), 1)
	require.True(t, ok)
	assert.Equal(t, a.ID, got.ID)
	got, ok = l.SeatAt(geometry.Pt(107, 100), 1)
	require.True(t, ok)
	assert.Equal(t, b.ID, got.ID)
}

func TestSeatsInBoxMatchesInclusiveRectangle(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	l := New("x")
	for i := 0; i < 200; i++ {
		seatAt(t, l, "A", "1", math.Round(rng.Float64()*400), math.Round(rng.Float64()*400))
	}
	for i := 0; i < 50; i++ {
		a := geometry.Pt(math.Round(rng.Float64()*400), math.Round(rng.Float64()*400))
		b := geometry.Pt(math.Round(rng.Float64()*400), math.Round(rng.Float64()*400))
		minX, maxX := math.Min(a.X, b.X), math.Max(a.X, b.X)
		minY, maxY := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)

		var want []string
		for _, s := range l.Seats() {
			if s.X >= minX && s.X <= maxX && s.Y >= minY && s.Y <= maxY {
				want = append(want, s.ID)
			}
		}
		assert.Equal(t, want, l.SeatsInBox(a, b))
		assert.Equal(t, want, l.SeatsInBox(b, a))
	}
}

func TestDeleteSectionReassignsToDefault(t *testing.T) {
	l := New("x")
	vip, err := l.AddSection(model.Section{Name: "VIP", Color: "#ef4444"})
	require.NoError(t, err)
	s1 := seatAt(t, l, "A", "1", 0, 0)
	s2 := seatAt(t, l, "A", "2", 40, 0)
	_, err = l.AssignSection([]string{s1.ID}, vip.ID)
	require.NoError(t, err)

	n, err := l.DeleteSection(vip.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, _ := l.Seat(s1.ID)
	assert.Equal(t, model.DefaultSectionID, got.SectionID)
	got, _ = l.Seat(s2.ID)
	assert.Equal(t, model.DefaultSectionID, got.SectionID)
	assert.Equal(t, 2, l.SeatCount(), "seats are never cascade-deleted")
}

func TestDeleteDefaultSectionRefused(t *testing.T) {
	l := New("x")
	_, err := l.DeleteSection(model.DefaultSectionID)
	assert.ErrorIs(t, err, ErrDefaultSection)
	_, ok := l.Section(model.DefaultSectionID)
	assert.True(t, ok)
}

func TestRandomSectionChurnNeverLeavesDanglingRefs(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	l := New("x")
	for i := 0; i < 30; i++ {
		seatAt(t, l, "A", "1", float64(i*40), 0)
	}
	for step := 0; step < 300; step++ {
		secs := l.Sections()
		switch rng.Intn(3) {
		case 0:
			_, err := l.AddSection(model.Section{Name: "s"})
			require.NoError(t, err)
		case 1:
			victim := secs[rng.Intn(len(secs))]
			_, err := l.DeleteSection(victim.ID)
			if victim.ID == model.DefaultSectionID {
				require.ErrorIs(t, err, ErrDefaultSection)
			} else {
				require.NoError(t, err)
			}
		case 2:
			target := secs[rng.Intn(len(secs))]
			seats := l.Seats()
			ids := []string{seats[rng.Intn(len(seats))].ID, seats[rng.Intn(len(seats))].ID}
			_, err := l.AssignSection(ids, target.ID)
			require.NoError(t, err)
		}
		for _, s := range l.Seats() {
			if s.SectionID == "" {
				continue
			}
			_, ok := l.Section(s.SectionID)
			require.True(t, ok, "seat %s points at missing section %s", s.ID, s.SectionID)
		}
	}
}

func TestAddRowReusesExistingRowY(t *testing.T) {
	l := New("x")
	seatAt(t, l, "B", "1", 500, 260)
	seatAt(t, l, "C", "1", 500, 300)

	added, err := l.AddRow(RowSpec{Label: "B", Count: 3, SectionID: model.DefaultSectionID, Type: model.SeatVIP})
	require.NoError(t, err)
	require.Len(t, added, 3)
	for i, s := range added {
		assert.Equal(t, 260.0, s.Y)
		assert.Equal(t, RowOriginX+float64(i)*DefaultSeatSpacing, s.X)
		assert.Equal(t, model.SeatVIP, s.Type)
	}
	assert.Equal(t, []string{"1", "2", "3"}, []string{added[0].Number, added[1].Number, added[2].Number})
}

func TestAddRowNewLabelGoesBelowLowestSeat(t *testing.T) {
	l := New("x")
	added, err := l.AddRow(RowSpec{Label: "A", Count: 2})
	require.NoError(t, err)
	assert.Equal(t, FirstRowBaseY+DefaultRowSpacing, added[0].Y)

	seatAt(t, l, "Z", "1", 0, 420)
	added, err = l.AddRow(RowSpec{Label: "B", Count: 2, RowSpacing: 50})
	require.NoError(t, err)
	assert.Equal(t, 470.0, added[0].Y)
}

func TestAddRowValidation(t *testing.T) {
	l := New("x")
	_, err := l.AddRow(RowSpec{Label: "", Count: 3})
	assert.ErrorIs(t, err, ErrInvalidRow)
	_, err = l.AddRow(RowSpec{Label: "A", Count: 0})
	assert.ErrorIs(t, err, ErrInvalidRow)
	_, err = l.AddRow(RowSpec{Label: "A", Count: 2, SectionID: "ghost"})
	assert.ErrorIs(t, err, ErrSectionNotFound)
}

func TestNextSeatNumber(t *testing.T) {
	l := New("x")
	assert.Equal(t, 1, l.NextSeatNumber("A"))
	seatAt(t, l, "A", "1", 0, 0)
	seatAt(t, l, "A", "7", 0, 0)
	seatAt(t, l, "B", "12", 0, 0)
	assert.Equal(t, 8, l.NextSeatNumber("A"))
}

func TestStatsCounts(t *testing.T) {
	l := New("Hall")
	sec, _ := l.AddSection(model.Section{ID: "front", Name: "Front"})
	s := seatAt(t, l, "A", "1", 0, 0)
	seatAt(t, l, "A", "2", 0, 0)
	_, _ = l.AssignSection([]string{s.ID}, sec.ID)
	_, _ = l.SetSeatType([]string{s.ID}, model.SeatVIP)

	md := l.Stats()
	assert.Equal(t, "Hall", md.Name)
	assert.Equal(t, 2, md.TotalSeats)
	assert.Equal(t, []model.SectionCount{
		{SectionID: model.DefaultSectionID, Name: model.DefaultSection().Name, Count: 1},
		{SectionID: "front", Name: "Front", Count: 1},
	}, md.SectionCounts)
	assert.Contains(t, md.SeatTypeCounts, model.TypeCount{Type: model.SeatVIP, Count: 1})
	assert.Contains(t, md.SeatTypeCounts, model.TypeCount{Type: model.SeatStandard, Count: 1})
}

func TestFromSnapshotDegradesBadValues(t *testing.T) {
	snap := model.Snapshot{
		Seats: []model.Seat{
			{ID: "s1", X: math.NaN(), Y: 40, Row: "A", Number: "1", Type: "gold", SectionID: "gone"},
			{ID: "s1", X: 10, Y: math.Inf(1), Row: "A", Number: "2", Type: model.SeatVIP},
		},
		Sections: []model.Section{{ID: "front", Name: "Front"}, {ID: "front", Name: "dup"}},
		GridSize: -3,
	}
	l := FromSnapshot(snap)

	assert.Equal(t, DefaultName, l.Name)
	assert.Equal(t, DefaultGridSize, l.Settings.GridSize)
	_, ok := l.Section(model.DefaultSectionID)
	assert.True(t, ok)
	assert.Len(t, l.Sections(), 2)

	seats := l.Seats()
	require.Len(t, seats, 2)
	assert.Equal(t, 0.0, seats[0].X)
	assert.Equal(t, model.SeatStandard, seats[0].Type)
	assert.Equal(t, model.DefaultSectionID, seats[0].SectionID)
	assert.Equal(t, 0.0, seats[1].Y)
	assert.NotEqual(t, seats[0].ID, seats[1].ID, "duplicate ids are regenerated")
}

func TestSnapshotRoundTripKeepsContent(t *testing.T) {
	l := New("Round")
	l.Settings.GridSize = 25
	l.Settings.ShowEntrance = false
	seatAt(t, l, "A", "1", 25, 50)
	l.AddElement(model.VenueElement{Kind: model.ElementStage, X: 0, Y: 0, Width: 200, Height: 40, Label: "STAGE"})

	back := FromSnapshot(l.Snapshot())
	assert.Equal(t, l.Seats(), back.Seats())
	assert.Equal(t, l.Sections(), back.Sections())
	assert.Equal(t, l.Elements(), back.Elements())
	assert.Equal(t, 25.0, back.Settings.GridSize)
	assert.False(t, back.Settings.ShowEntrance)
}

func TestCaptureRestore(t *testing.T) {
	l := New("x")
	seatAt(t, l, "A", "1", 0, 0)
	st := l.Capture()
	seatAt(t, l, "A", "2", 40, 0)
	_, _ = l.AddSection(model.Section{Name: "extra"})

	l.Restore(st)
	assert.Equal(t, 1, l.SeatCount())
	assert.Len(t, l.Sections(), 1)
}

func TestRowsOrdering(t *testing.T) {
	l := New("x")
	seatAt(t, l, "AA", "1", 0, 0)
	seatAt(t, l, "B", "10", 0, 0)
	seatAt(t, l, "B", "2", 0, 0)
	seatAt(t, l, "A", "1", 0, 0)
	rows := l.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, "A", rows[0].Label)
	assert.Equal(t, "B", rows[1].Label)
	assert.Equal(t, []string{"2", "10"}, rows[1].Numbers)
	assert.Equal(t, "AA", rows[2].Label)
}

func TestRowLabels(t *testing.T) {
	assert.Equal(t, "B", NextRowLabel("A"))
	assert.Equal(t, "AA", NextRowLabel("Z"))
	assert.Equal(t, "AB", NextRowLabel("aa"))
	assert.Equal(t, "A", NextRowLabel("12"))
	idx, ok := RowLabelToIndex("AA")
	assert.True(t, ok)
	assert.Equal(t, 26, idx)
	assert.Equal(t, "AZ", IndexToRowLabel(51))
}

func TestOffsetSeatsMovesOnlyListedSeats(t *testing.T) {
	l := New("")
	a := seatAt(t, l, "A", "1", 10, 10)
	b := seatAt(t, l, "A", "2", 50, 10)
	l.OffsetSeats([]string{a.ID}, geometry.Pt(5, -3))
	got, _ := l.Seat(a.ID)
	assert.Equal(t, geometry.Pt(15, 7), got.Position())
	got, _ = l.Seat(b.ID)
	assert.Equal(t, geometry.Pt(50, 10), got.Position())
}
