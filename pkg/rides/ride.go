package rides

import (
	"fmt"

	"ridebooking/pkg/sheets"
)

// Ride is one booking. Rows have no key; a ride is identified by its
// position and field values.
type Ride struct {
	Name    string `json:"name"`
	Date    string `json:"date"`
	Time    string `json:"time"`
	Pickup  string `json:"pickup"`
	Dropoff string `json:"dropoff"`
}

// Label is what the admin delete selector shows for a ride.
func (r Ride) Label() string {
	return fmt.Sprintf("%s - %s %s", r.Name, r.Date, r.Time)
}

func (r Ride) ToRow() []string {
	row := make([]string, len(sheets.Header))
	row[sheets.ColumnName] = r.Name
	row[sheets.ColumnDate] = r.Date
	row[sheets.ColumnTime] = r.Time
	row[sheets.ColumnPickup] = r.Pickup
	row[sheets.ColumnDropoff] = r.Dropoff
	return row
}

func rowToRide(row []string) Ride {
	get := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}
	return Ride{
		Name:    get(int(sheets.ColumnName)),
		Date:    get(int(sheets.ColumnDate)),
		Time:    get(int(sheets.ColumnTime)),
		Pickup:  get(int(sheets.ColumnPickup)),
		Dropoff: get(int(sheets.ColumnDropoff)),
	}
}

func toRows(rides []Ride) [][]string {
	rows := make([][]string, len(rides))
	for i, r := range rides {
		rows[i] = r.ToRow()
	}
	return rows
}
