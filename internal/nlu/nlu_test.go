package nlu

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		in   string
		want Intent
	}{
		{"search for cats", Search},
		{"search the weather in boston", Search},
		{"what time is it", Time},
		{"  WHAT TIME IS IT  ", Time},
		{"what's the weather in boston", Weather},
		{"weather at this time", Time},
		{"open the browser", Open},
		{"open the weather app", Weather},
		{"quit", Exit},
		{"goodbye echo", Exit},
		{"please exit", Exit},
		{"sing me a song", Unknown},
	}

	for _, tc := range cases {
		got, ok := Classify(tc.in)
		if !ok {
			t.Fatalf("%q: expected an intent", tc.in)
		}
		if got != tc.want {
			t.Fatalf("%q: expected %v, got %v", tc.in, tc.want, got)
		}
	}
}

func TestClassifySearchWinsOverEveryOtherKeyword(t *testing.T) {
	for _, other := range []string{"time", "weather", "open", "exit", "quit", "goodbye"} {
		u := other + " and search " + other
		if got, _ := Classify(u); got != Search {
			t.Fatalf("%q: expected search, got %v", u, got)
		}
	}
}

func TestClassifyEmptyIsNoop(t *testing.T) {
	for _, in := range []string{"", "   ", "\t\n"} {
		if _, ok := Classify(in); ok {
			t.Fatalf("%q: expected no intent", in)
		}
	}
}

func TestRulesOrder(t *testing.T) {
	want := []Intent{Search, Time, Weather, Open, Exit}
	got := Rules()
	if len(got) != len(want) {
		t.Fatalf("expected %d rules, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].Intent != want[i] {
			t.Fatalf("rule %d: expected %v, got %v", i, want[i], got[i].Intent)
		}
	}
}

func TestSearchQuery(t *testing.T) {
	cases := map[string]string{
		"search for cats":     "cats",
		"Search cats":         "cats",
		"search":              "",
		"search for":          "",
		"please search dogs ": "please  dogs",
	}
	for in, want := range cases {
		if got := SearchQuery(in); got != want {
			t.Fatalf("%q: expected %q, got %q", in, want, got)
		}
	}
}

func TestWeatherLocation(t *testing.T) {
	cases := map[string]string{
		"weather in boston":   "Boston",
		"weather":             DefaultLocation,
		"Paris weather":       "Paris",
		"weather in new york": "New York",
	}
	for in, want := range cases {
		if got := WeatherLocation(in); got != want {
			t.Fatalf("%q: expected %q, got %q", in, want, got)
		}
	}
}

func TestIntentString(t *testing.T) {
	if Search.String() != "search" || Unknown.String() != "unknown" || Intent(42).String() != "unknown" {
		t.Fatalf("unexpected intent names")
	}
}
