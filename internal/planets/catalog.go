// Package planets holds the built-in solar system catalog and the quiz that
// ships with each planet.
package planets

import (
	"fmt"

	"github.com/abhisek/solarquiz/internal/highscore"
	"github.com/abhisek/solarquiz/internal/quiz"
)

// Planet is one catalog entry.
type Planet struct {
	Name        string
	Description string
	Distance    string // from the Sun
	Gravity     string
	FunFact     string
	Color       string // hex accent used by the TUI
}

// Key is the normalized subject key the planet's records are stored under.
func (p Planet) Key() string {
	return highscore.NormalizeKey(p.Name)
}

// Narration is the text spoken for the planet during a tour.
func (p Planet) Narration() string {
	return fmt.Sprintf("%s. %s", p.Name, p.Description)
}

// Catalog lists planets in order from the Sun and their built-in questions.
type Catalog struct {
	planets   []Planet
	questions map[string][]quiz.Question
}

// Default returns the eight-planet catalog.
func Default() *Catalog {
	c := &Catalog{
		planets:   solarSystem,
		questions: make(map[string][]quiz.Question, len(solarSystem)),
	}
	for _, q := range builtinQuestions {
		k := highscore.NormalizeKey(q.Subject)
		c.questions[k] = append(c.questions[k], q)
	}
	return c
}

// All returns the planets in solar order. The slice is a copy.
func (c *Catalog) All() []Planet {
	return append([]Planet(nil), c.planets...)
}

// Lookup finds a planet by name, ignoring case and punctuation.
func (c *Catalog) Lookup(name string) (Planet, bool) {
	key := highscore.NormalizeKey(name)
	for _, p := range c.planets {
		if p.Key() == key {
			return p, true
		}
	}
	return Planet{}, false
}

// Quiz returns the built-in questions for the named subject, or nil.
func (c *Catalog) Quiz(subject string) []quiz.Question {
	qs := c.questions[highscore.NormalizeKey(subject)]
	return append([]quiz.Question(nil), qs...)
}

// Tour returns the narration items for a full tour in solar order.
func (c *Catalog) Tour() []string {
	items := make([]string, len(c.planets))
	for i, p := range c.planets {
		items[i] = p.Narration()
	}
	return items
}

// Names returns the planet names in solar order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.planets))
	for i, p := range c.planets {
		names[i] = p.Name
	}
	return names
}

var solarSystem = []Planet{
	{
		Name:        "Mercury",
		Description: "Mercury is the smallest planet and closest to the Sun.",
		Distance:    "57.9 million km",
		Gravity:     "3.7 m/s²",
		FunFact:     "A year on Mercury is just 88 Earth days.",
		Color:       "#B0BEC5",
	},
	{
		Name:        "Venus",
		Description: "Venus has a thick toxic atmosphere and is very hot.",
		Distance:    "108.2 million km",
		Gravity:     "8.87 m/s²",
		FunFact:     "Venus rotates backwards compared to most planets.",
		Color:       "#FFC107",
	},
	{
		Name:        "Earth",
		Description: "Earth is our home, the only known planet with life.",
		Distance:    "149.6 million km",
		Gravity:     "9.81 m/s²",
		FunFact:     "About 71% of Earth's surface is water.",
		Color:       "#42A5F5",
	},
	{
		Name:        "Mars",
		Description: "Mars is called the Red Planet because of iron oxide on its surface.",
		Distance:    "227.9 million km",
		Gravity:     "3.71 m/s²",
		FunFact:     "Mars hosts the tallest volcano in the solar system, Olympus Mons.",
		Color:       "#E53935",
	},
	{
		Name:        "Jupiter",
		Description: "Jupiter is the largest planet and a gas giant.",
		Distance:    "778.5 million km",
		Gravity:     "24.79 m/s²",
		FunFact:     "Jupiter's Great Red Spot is a giant storm larger than Earth.",
		Color:       "#D78848",
	},
	{
		Name:        "Saturn",
		Description: "Saturn is famous for its bright ring system.",
		Distance:    "1.43 billion km",
		Gravity:     "10.44 m/s²",
		FunFact:     "Saturn has dozens of moons, and Titan is larger than Mercury.",
		Color:       "#F2C879",
	},
	{
		Name:        "Uranus",
		Description: "Uranus is an ice giant that rotates on its side.",
		Distance:    "2.87 billion km",
		Gravity:     "8.69 m/s²",
		FunFact:     "Uranus appears blue-green because of methane in its atmosphere.",
		Color:       "#7FDBFF",
	},
	{
		Name:        "Neptune",
		Description: "Neptune is a cold, blue ice giant and the farthest known planet.",
		Distance:    "4.50 billion km",
		Gravity:     "11.15 m/s²",
		FunFact:     "Neptune has extremely strong winds, the fastest in the solar system.",
		Color:       "#3A4CC0",
	},
}

var builtinQuestions = []quiz.Question{
	{Subject: "Mercury", Prompt: "How long is a year on Mercury?", Options: []string{"88 Earth days", "365 days", "687 Earth days", "30 days"}, CorrectOption: 0},
	{Subject: "Mercury", Prompt: "Which is true about Mercury?", Options: []string{"Has thick clouds", "Smallest planet", "Has rings", "Is blue"}, CorrectOption: 1},

	{Subject: "Venus", Prompt: "Why is Venus so hot?", Options: []string{"It has no atmosphere", "Thick CO₂ traps heat", "It is on fire", "It is close to Earth"}, CorrectOption: 1},
	{Subject: "Venus", Prompt: "What is unique about Venus' rotation?", Options: []string{"It rotates sideways", "It rotates backwards", "It doesn't rotate", "It rotates very fast"}, CorrectOption: 1},

	{Subject: "Earth", Prompt: "What percent of Earth is water?", Options: []string{"10%", "71%", "40%", "85%"}, CorrectOption: 1},
	{Subject: "Earth", Prompt: "What is Earth's gravity?", Options: []string{"3.7 m/s²", "9.81 m/s²", "24.79 m/s²", "11.15 m/s²"}, CorrectOption: 1},

	{Subject: "Mars", Prompt: "What is Mars also called?", Options: []string{"Blue planet", "Red planet", "Gas giant", "Ice giant"}, CorrectOption: 1},
	{Subject: "Mars", Prompt: "Mars has the tallest volcano named:", Options: []string{"Vesuvius", "Olympus Mons", "Mount Everest", "Etna"}, CorrectOption: 1},

	{Subject: "Jupiter", Prompt: "What is Jupiter known for?", Options: []string{"Big rings", "Strong winds", "Great Red Spot", "Tilted rotation"}, CorrectOption: 2},
	{Subject: "Jupiter", Prompt: "Jupiter is a:", Options: []string{"Gas giant", "Ice giant", "Dwarf planet", "Rocky planet"}, CorrectOption: 0},

	{Subject: "Saturn", Prompt: "What is Saturn famous for?", Options: []string{"Its moons", "Its rings", "Its volcanoes", "Its blue color"}, CorrectOption: 1},
	{Subject: "Saturn", Prompt: "Which moon of Saturn is larger than Mercury?", Options: []string{"Europa", "Ganymede", "Titan", "Enceladus"}, CorrectOption: 2},

	{Subject: "Uranus", Prompt: "Why does Uranus look blue-green?", Options: []string{"Water oceans", "Methane gas", "Ice crystals", "Storms"}, CorrectOption: 1},
	{Subject: "Uranus", Prompt: "Uranus rotates:", Options: []string{"Very fast", "Backwards", "On its side", "Not at all"}, CorrectOption: 2},

	{Subject: "Neptune", Prompt: "Neptune is known for:", Options: []string{"Fastest winds", "Brightest rings", "Red surface", "Green color"}, CorrectOption: 0},
	{Subject: "Neptune", Prompt: "Neptune is the:", Options: []string{"Closest planet", "Smallest planet", "Coldest planet", "Farthest known planet"}, CorrectOption: 3},
}
