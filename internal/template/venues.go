package template

import (
	"fmt"

	"github.com/iliyamo/seatmap-studio/internal/geometry"
	"github.com/iliyamo/seatmap-studio/internal/model"
)

func theater() Blueprint {
	orchestra := straightBlock{sectionID: "orchestra", firstRow: 0, rows: 8, perRow: 16, top: 160, rowSpacing: 40, seatSpacing: 36, seatType: model.SeatPremium}
	mezzanine := straightBlock{sectionID: "mezzanine", firstRow: 8, rows: 5, perRow: 20, top: 520, rowSpacing: 40, seatSpacing: 36, seatType: model.SeatStandard}
	balcony := straightBlock{sectionID: "balcony", firstRow: 13, rows: 4, perRow: 22, top: 760, rowSpacing: 40, seatSpacing: 36, seatType: model.SeatStandard}

	var seats []SeatBlueprint
	seats = append(seats, orchestra.seats()...)
	seats = append(seats, mezzanine.seats()...)
	seats = append(seats, balcony.seats()...)
	// wheelchair spaces at both ends of the last orchestra row
	markType(seats, "H", model.SeatAccessible, "1", fmt.Sprint(orchestra.perRow))

	return Blueprint{
		Sections: []model.Section{
			{ID: "orchestra", Name: "Orchestra", Color: "#8b5cf6"},
			{ID: "mezzanine", Name: "Mezzanine", Color: "#3b82f6"},
			{ID: "balcony", Name: "Balcony", Color: "#14b8a6"},
		},
		Elements: []model.VenueElement{stage(centerX, 40, 360, 60, "STAGE")},
		Seats:    seats,
	}
}

func classroom() Blueprint {
	front := straightBlock{sectionID: "front", firstRow: 0, rows: 3, perRow: 10, top: 150, rowSpacing: 45, seatSpacing: 40, seatType: model.SeatStandard}
	middle := straightBlock{sectionID: "middle", firstRow: 3, rows: 4, perRow: 12, top: 315, rowSpacing: 45, seatSpacing: 40, seatType: model.SeatStandard}
	back := straightBlock{sectionID: "back", firstRow: 7, rows: 3, perRow: 14, top: 525, rowSpacing: 45, seatSpacing: 40, seatType: model.SeatStandard}

	var seats []SeatBlueprint
	seats = append(seats, front.seats()...)
	seats = append(seats, middle.seats()...)
	seats = append(seats, back.seats()...)

	return Blueprint{
		Sections: []model.Section{
			{ID: "front", Name: "Front Section", Color: "#22c55e"},
			{ID: "middle", Name: "Middle Section", Color: "#3b82f6"},
			{ID: "back", Name: "Back Section", Color: "#a855f7"},
		},
		Elements: []model.VenueElement{stage(centerX, 40, 240, 50, "PRESENTER")},
		Seats:    seats,
	}
}

func concertHall() Blueprint {
	floor := straightBlock{sectionID: "floor", firstRow: 0, rows: 6, perRow: 20, top: 200, rowSpacing: 40, seatSpacing: 34, seatType: model.SeatVIP}
	lower := straightBlock{sectionID: "lower_tier", firstRow: 6, rows: 6, perRow: 24, top: 500, rowSpacing: 40, seatSpacing: 34, seatType: model.SeatPremium}
	upper := straightBlock{sectionID: "upper_tier", firstRow: 12, rows: 6, perRow: 28, top: 800, rowSpacing: 40, seatSpacing: 34, seatType: model.SeatStandard}

	var seats []SeatBlueprint
	seats = append(seats, floor.seats()...)
	seats = append(seats, lower.seats()...)
	seats = append(seats, upper.seats()...)

	return Blueprint{
		Sections: []model.Section{
			{ID: "floor", Name: "Floor", Color: "#ef4444"},
			{ID: "lower_tier", Name: "Lower Tier", Color: "#f59e0b"},
			{ID: "upper_tier", Name: "Upper Tier", Color: "#3b82f6"},
		},
		Elements: []model.VenueElement{stage(centerX, 40, 480, 80, "STAGE")},
		Seats:    seats,
	}
}

const bowlCenterX = 1100.0

func stadium() Blueprint {
	// the bowl is wider than the straight templates, keep its left edge in
	// positive world space
	center := geometry.Pt(bowlCenterX, 120)
	lower := curvedBlock{
		sectionID: "lower_bowl", firstRow: 0, rows: 8, baseSeats: 20, growth: 2,
		center: center, baseRadius: 260, rowSpacing: 36, lift: 4,
		minAngle: deg(20), maxAngle: deg(160), bowl: 12, seatType: model.SeatPremium,
	}
	middle := curvedBlock{
		sectionID: "middle_bowl", firstRow: 8, rows: 6, baseSeats: 36, growth: 2,
		center: center, baseRadius: 578, rowSpacing: 36, lift: 4,
		minAngle: deg(20), maxAngle: deg(160), bowl: 16, seatType: model.SeatStandard,
	}
	upper := curvedBlock{
		sectionID: "upper_bowl", firstRow: 14, rows: 6, baseSeats: 48, growth: 2,
		center: center, baseRadius: 824, rowSpacing: 36, lift: 4,
		minAngle: deg(20), maxAngle: deg(160), bowl: 20, seatType: model.SeatStandard,
	}

	var seats []SeatBlueprint
	seats = append(seats, lower.seats()...)
	seats = append(seats, middle.seats()...)
	seats = append(seats, upper.seats()...)

	field := stage(bowlCenterX, 60, 360, 120, "FIELD")
	field.Color = "#166534"
	return Blueprint{
		Sections: []model.Section{
			{ID: "lower_bowl", Name: "Lower Bowl", Color: "#f59e0b"},
			{ID: "middle_bowl", Name: "Middle Bowl", Color: "#3b82f6"},
			{ID: "upper_bowl", Name: "Upper Bowl", Color: "#6366f1"},
		},
		Elements: []model.VenueElement{field},
		Seats:    seats,
	}
}

// markType changes the type of the seats with the given numbers in row.
func markType(seats []SeatBlueprint, row string, t model.SeatType, numbers ...string) {
	want := map[string]bool{}
	for _, n := range numbers {
		want[n] = true
	}
	for i := range seats {
		if seats[i].Row == row && want[seats[i].Number] {
			seats[i].Type = t
		}
	}
}
