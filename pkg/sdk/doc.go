// Package taxodex is a Go client for the taxodex query API.
//
// It searches the literature, taxonomy and samples collections of a
// running taxodex server, mints record identifiers and reads collection
// statistics.
//
//	client, _ := taxodex.New("http://localhost:8000/")
//	recs, _ := client.Search(ctx, taxodex.KindTaxonomy, "tigris")
//	for _, r := range recs {
//	    fmt.Println(r.RecordID())
//	}
//	id := client.GenerateID(ctx, taxodex.KindLiterature) // "" if the server is unreachable
package taxodex
