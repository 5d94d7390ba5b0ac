package main

import (
	"flag"
	"fmt"
	"strconv"

	"github.com/JaimeStill/verdict/internal/analyst"
)

// countFlag is an optional non-negative integer flag.
type countFlag struct {
	value *int64
}

func (f *countFlag) String() string {
	if f.value == nil {
		return ""
	}
	return strconv.FormatInt(*f.value, 10)
}

func (f *countFlag) Set(s string) error {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return fmt.Errorf("must be a non-negative integer")
	}
	f.value = &n
	return nil
}

// rateFlag is an optional non-negative percentage flag.
type rateFlag struct {
	value *float64
}

func (f *rateFlag) String() string {
	if f.value == nil {
		return ""
	}
	return strconv.FormatFloat(*f.value, 'f', -1, 64)
}

func (f *rateFlag) Set(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return fmt.Errorf("must be a non-negative number")
	}
	f.value = &v
	return nil
}

type metricFlags struct {
	impressions countFlag
	reach       countFlag
	likes       countFlag
	comments    countFlag
	shares      countFlag
	saves       countFlag
	engagement  rateFlag
}

func (m *metricFlags) register(fs *flag.FlagSet) {
	fs.Var(&m.impressions, "impressions", "Impressions")
	fs.Var(&m.reach, "reach", "Reach")
	fs.Var(&m.likes, "likes", "Likes")
	fs.Var(&m.comments, "comments", "Comments")
	fs.Var(&m.shares, "shares", "Shares")
	fs.Var(&m.saves, "saves", "Saves")
	fs.Var(&m.engagement, "engagement-rate", "Engagement rate in percent")
}

func (m *metricFlags) values() analyst.Metrics {
	return analyst.Metrics{
		Impressions:    m.impressions.value,
		Reach:          m.reach.value,
		Likes:          m.likes.value,
		Comments:       m.comments.value,
		Shares:         m.shares.value,
		Saves:          m.saves.value,
		EngagementRate: m.engagement.value,
	}
}
