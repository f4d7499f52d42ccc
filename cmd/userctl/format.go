package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"usermanager/internal/users"
)

func printUsers(w io.Writer, format string, list []users.UserRecord) error {
	if format == "json" {
		if list == nil {
			list = []users.UserRecord{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}
	formatUsersText(w, list)
	return nil
}

// formatUsersText prints the mirror as aligned columns.
func formatUsersText(w io.Writer, list []users.UserRecord) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFIRST NAME\tLAST NAME\tEMAIL\tDEPARTMENT")
	for _, u := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", u.ID, u.FirstName, u.LastName, u.Email, u.Department)
	}
	tw.Flush()
}
