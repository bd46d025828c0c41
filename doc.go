// Package powerof10 is a client for the public athletics statistics site
// thepowerof10.info.
//
// The site has no API. Every operation builds a query string against a fixed
// HTML endpoint, fetches the page, checks it for the site's "too many results"
// and "not found" markers and then reads table rows by column position into
// plain records. Column positions are tied to the current page layout and are
// declared once per endpoint as a row schema (see schema.go); a layout change
// upstream breaks extraction rather than being detected.
//
// All record fields are the trimmed text of a table cell. Nothing is converted
// to numbers or dates.
//
//	c := powerof10.New()
//	athletes, err := c.SearchAthletes(ctx, powerof10.AthleteQuery{Surname: "Qureshi"})
//	if errors.Is(err, powerof10.ErrBroadQuery) {
//	    // narrow the search
//	}
package powerof10
