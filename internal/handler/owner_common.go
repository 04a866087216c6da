package handler // handler defines http handlers

import (
	"errors"  // errors provides sentinel values used in getUserID
	"math"    // math rejects non-finite query values
	"strconv" // strconv converts strings to numeric types

	"github.com/labstack/echo/v4" // echo defines request context types
)

// getUserID extracts the user_id from echo.Context and converts it to uint64
func getUserID(c echo.Context) (uint64, error) { // begin getUserID helper
	v := c.Get("user_id") // fetch user_id from context
	switch t := v.(type) { // perform type switch on the value
	case uint64: // when already uint64
		return t, nil // return directly
	case int: // when stored as int
		return uint64(t), nil // convert to uint64
	case int64: // when stored as int64
		return uint64(t), nil // convert to uint64
	case float64: // when stored as float64
		return uint64(t), nil // convert to uint64
	case string: // when stored as string
		if n, err := strconv.ParseUint(t, 10, 64); err == nil { // parse string to uint64
			return n, nil // return parsed number
		}
	} // end type switch
	return 0, errors.New("invalid user_id in context") // return error if value is missing or invalid
}

// parseEventID reads the :event_id path parameter
func parseEventID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("event_id"), 10, 64) // event ids are positive integers
	if err != nil || id == 0 {
		return 0, errors.New("invalid event id")
	}
	return id, nil
}

// queryFloat reads a positive float query parameter, falling back to def
func queryFloat(c echo.Context, name string, def float64) float64 {
	v, err := strconv.ParseFloat(c.QueryParam(name), 64)
	if err != nil || v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return def
	}
	return v
}
