package server

import (
	"github.com/valyala/fastrand"
)

var (
	adjectives = []string{
		"Brave", "Clever", "Happy", "Mystic", "Swift",
		"Nimble", "Lucky", "Quiet", "Bold", "Witty",
		"Sunny", "Curious", "Gentle", "Mighty", "Calm",
	}

	nouns = []string{
		"Panda", "Tiger", "Otter", "Falcon", "Fox",
		"Koala", "Badger", "Heron", "Lynx", "Walrus",
		"Gecko", "Puffin", "Raven", "Bison", "Hedgehog",
	}
)

// GenerateNickname returns a random display name such as "SwiftOtter".
func GenerateNickname() string {
	return adjectives[fastrand.Uint32n(uint32(len(adjectives)))] + nouns[fastrand.Uint32n(uint32(len(nouns)))]
}
