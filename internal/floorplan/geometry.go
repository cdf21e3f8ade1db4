// Package floorplan computes seat geometry for floor-plan objects. All
// functions are pure: regenerating seats for unchanged object fields yields
// identical output, with no dependency on prior state.
package floorplan

import (
	"fmt"
	"math"
	"strconv"

	"github.com/eventlane/eventlane/internal/domain"
)

// Seat is a generated seat position. ID is derived from the object ID and the
// seat label, so regeneration is stable across calls.
type Seat struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Row   int     `json:"row"`
	Col   int     `json:"col"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// GenerateSeats returns the seats declared by an object's shape. Gate-like
// objects (stage, entry, exit) have no seats.
func GenerateSeats(obj *domain.FloorObject) []Seat {
	switch obj.Type {
	case domain.ObjectTypeGrid:
		return gridSeats(obj)
	case domain.ObjectTypeRoundTable:
		return roundTableSeats(obj)
	default:
		return nil
	}
}

// gridSeats lays out rows × cols seats from the object origin, stepping by
// seat size plus spacing. Coordinates listed in the gap set are omitted.
func gridSeats(obj *domain.FloorObject) []Seat {
	gaps := make(map[string]struct{}, len(obj.Gaps))
	for _, g := range obj.Gaps {
		gaps[g] = struct{}{}
	}

	step := obj.SeatSize + obj.Spacing
	seats := make([]Seat, 0, obj.Rows*obj.Cols)

	for row := 0; row < obj.Rows; row++ {
		for col := 0; col < obj.Cols; col++ {
			if _, gap := gaps[fmt.Sprintf("%d-%d", row, col)]; gap {
				continue
			}

			label := RowLabel(row) + strconv.Itoa(col+1)
			seats = append(seats, Seat{
				ID:    obj.ID.String() + ":" + label,
				Label: label,
				Row:   row,
				Col:   col,
				X:     obj.X + float64(col)*step,
				Y:     obj.Y + float64(row)*step,
			})
		}
	}

	return seats
}

// roundTableSeats distributes SeatCount seats evenly around the table center
// at radius = table radius + seat radius. Labels are 1..n.
func roundTableSeats(obj *domain.FloorObject) []Seat {
	if obj.SeatCount <= 0 {
		return nil
	}

	radius := obj.TableRadius + obj.SeatRadius
	seats := make([]Seat, 0, obj.SeatCount)

	for i := 0; i < obj.SeatCount; i++ {
		angle := float64(i) * 360 / float64(obj.SeatCount) * math.Pi / 180
		label := strconv.Itoa(i + 1)
		seats = append(seats, Seat{
			ID:    obj.ID.String() + ":" + label,
			Label: label,
			Row:   0,
			Col:   i,
			X:     obj.X + radius*math.Cos(angle),
			Y:     obj.Y + radius*math.Sin(angle),
		})
	}

	return seats
}

// RowLabel converts a 0-based row index to its label: A..Z for the first 26
// rows, then the letter cycle repeats with a numeral suffix (row 26 -> "A0",
// row 27 -> "B0", row 52 -> "A1", ...).
func RowLabel(row int) string {
	letter := string(rune('A' + row%26))
	if row < 26 {
		return letter
	}
	return letter + strconv.Itoa(row/26-1)
}
