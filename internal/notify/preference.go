package notify

import "strings"

type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelPhone Channel = "phone"
)

var Channels = []Channel{ChannelEmail, ChannelPhone}

type Preference string

const (
	PreferEmail Preference = "email"
	PreferPhone Preference = "phone"
	PreferBoth  Preference = "both"
)

func ParsePreference(s string) (Preference, bool) {
	p := Preference(strings.ToLower(strings.TrimSpace(s)))
	return p, p.Valid()
}

func (p Preference) Valid() bool {
	switch p {
	case PreferEmail, PreferPhone, PreferBoth:
		return true
	}
	return false
}

func (p Preference) Wants(c Channel) bool {
	switch c {
	case ChannelEmail:
		return p == PreferEmail || p == PreferBoth
	case ChannelPhone:
		return p == PreferPhone || p == PreferBoth
	}
	return false
}

type Recipient struct {
	Email string
	Phone string
}

func (r Recipient) Address(c Channel) string {
	switch c {
	case ChannelEmail:
		return r.Email
	case ChannelPhone:
		return r.Phone
	}
	return ""
}
