package content

var (
	defaultBio = `I love building software that's both useful and fun, and I'm always curious about how things work behind the scenes.
Most of my projects start with a simple idea and turn into a chance to learn something new, whether it's exploring a
different language, experimenting with tools, or solving tricky problems.`

	defaultProjects = []Project{
		{
			Title:       "Terminal Mail",
			Description: "A terminal-based email client built in Go with fuzzy finding, using the Charmbracelet TUI framework and go-imap.",
			Tags:        []string{"Go", "TUI"},
		},
		{
			Title:       "Terminal Music",
			Description: "A terminal music streaming application built in Go, driving yt-dlp and mpv for playback from the command line.",
			Tags:        []string{"Go", "TUI"},
		},
		{
			Title:       "Game Recommender",
			Description: "A web application that uses TF-IDF vectorization and cosine similarity to recommend games from their descriptions and reviews.",
			Tags:        []string{"Python", "ML"},
		},
	}
)

// Defaults returns the built-in content for all four sections.
func Defaults() Portfolio {
	p := Portfolio{
		Hero: Hero{
			Name:     "Your Name",
			Headline: "Software Developer",
			Tagline:  "I build useful, fun software and love finding out how things work.",
			CTA:      "View my work",
		},
		About: About{
			Bio:    defaultBio,
			Skills: []string{"Go", "HTMX", "SQL", "Tailwind CSS"},
		},
		Projects: Projects{
			Heading: "Projects",
			Items:   defaultProjects,
		},
		Contact: Contact{
			Heading:     "Get in touch",
			Email:       "you@example.com",
			Message:     "Have a project in mind or just want to say hi? Send me a message.",
			FormEnabled: true,
		},
	}
	return p.Clone()
}
