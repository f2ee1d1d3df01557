// Copyright (c) 2026 Createch Team
// Createch - terminal sign-in client for Firebase
// This source code is licensed under the MIT license found in the LICENSE file.

package account

import "strings"

// Country is an entry of the dialing-code picker.
type Country struct {
	Code string
	ISO  string
	Name string
}

// Label renders the picker entry.
func (c Country) Label() string {
	return c.Code + " " + c.ISO
}

// Countries lists the selectable dialing codes; the first entry is the default.
var Countries = []Country{
	{Code: "+63", ISO: "PH", Name: "Philippines"},
	{Code: "+1", ISO: "US", Name: "United States"},
	{Code: "+44", ISO: "GB", Name: "United Kingdom"},
	{Code: "+61", ISO: "AU", Name: "Australia"},
	{Code: "+65", ISO: "SG", Name: "Singapore"},
	{Code: "+60", ISO: "MY", Name: "Malaysia"},
	{Code: "+66", ISO: "TH", Name: "Thailand"},
	{Code: "+84", ISO: "VN", Name: "Vietnam"},
	{Code: "+62", ISO: "ID", Name: "Indonesia"},
	{Code: "+81", ISO: "JP", Name: "Japan"},
	{Code: "+82", ISO: "KR", Name: "South Korea"},
	{Code: "+86", ISO: "CN", Name: "China"},
	{Code: "+91", ISO: "IN", Name: "India"},
	{Code: "+971", ISO: "AE", Name: "UAE"},
	{Code: "+966", ISO: "SA", Name: "Saudi Arabia"},
}

// DefaultCountry is preselected in the picker.
var DefaultCountry = Countries[0]

// LookupCountry finds a country by dialing code or ISO code.
func LookupCountry(s string) (Country, bool) {
	s = strings.TrimSpace(s)
	for _, c := range Countries {
		if c.Code == s || strings.EqualFold(c.ISO, s) || c.Code == "+"+s {
			return c, true
		}
	}
	return Country{}, false
}

// ComposePhone joins a dialing code and a local number without a separator.
func ComposePhone(code, number string) string {
	return code + number
}
