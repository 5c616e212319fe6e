// Built-in stage content for the four-stage escape game.
//
// Stage 1 ("quiz") is a timed logo quiz about everyday developer tooling.
// Stage 2 ("workshop") asks the team for the six tools of six digital jobs,
// then to match each job to the tool it produced.
// Stage 3 ("riddles") is a turn-based chain of ten riddles about the
// machines around us.
// Stage 4 ("finale") is a timed quiz about the history of the Internet.

package main

type question struct {
	Text         string
	ImageURL     string
	Answers      []string
	CorrectIndex int
}

var quizQuestions = []question{
	{
		Text:         "What is this software (VS Code) used for?",
		ImageURL:     "/questions/vscode.png",
		Answers:      []string{"Styling pages", "Hosting", "Maintenance", "Writing code"},
		CorrectIndex: 3,
	},
	{
		Text:         "Which language does this logo belong to?",
		ImageURL:     "/questions/logohtml.png",
		Answers:      []string{"Yell5", "HTML", "JetBrains", "SQL"},
		CorrectIndex: 1,
	},
	{
		Text:         "Which language does this logo belong to?",
		ImageURL:     "/questions/logocss.png",
		Answers:      []string{"CSS", "Node.js", "TScript", "BlueStack"},
		CorrectIndex: 0,
	},
	{
		Text:         "Which language does this logo belong to?",
		ImageURL:     "/questions/logojs.png",
		Answers:      []string{"JSite", "Ruby", "JavaScript", "PHP"},
		CorrectIndex: 2,
	},
	{
		Text:         "Which language does this logo belong to?",
		ImageURL:     "/questions/logopy.png",
		Answers:      []string{"Reverze", "Vercel", "Snake", "Python"},
		CorrectIndex: 3,
	},
	{
		Text:         "Where does the visible content of a web page go?",
		ImageURL:     "/questions/code.png",
		Answers:      []string{"Title", "html", "Body", "Head"},
		CorrectIndex: 2,
	},
}

var finaleQuestions = []question{
	{
		Text: "What was the Internet originally built for?",
		Answers: []string{
			"Playing online games",
			"Watching films",
			"Exchanging information between researchers",
			"Shopping",
		},
		CorrectIndex: 2,
	},
	{
		Text: "Who were the first users of the Internet?",
		Answers: []string{
			"Researchers and academics",
			"Teenagers",
			"Businesses",
			"Gamers",
		},
		CorrectIndex: 0,
	},
	{
		Text:         "What was the first network that became the Internet called?",
		Answers:      []string{"INTRANET", "WIFI-NET", "WEBNET", "ARPANET"},
		CorrectIndex: 3,
	},
	{
		Text: "Before the Internet, how did people mostly communicate at a distance?",
		Answers: []string{
			"By email",
			"By post and telephone",
			"By SMS",
			"By social media",
		},
		CorrectIndex: 1,
	},
	{
		Text:         "Which device has become essential for going online?",
		Answers:      []string{"The smartphone", "The television", "The radio", "The CD"},
		CorrectIndex: 0,
	},
	{
		Text:         "What is the most used search engine?",
		Answers:      []string{"Google", "Yahoo", "Bing", "Safari"},
		CorrectIndex: 0,
	},
}

// pair links a job (left item) to the tool it uses (right item). The two
// sides share the same id; matching leftId to its own id is the correct
// assignment, regardless of label text.
type pair struct {
	ID         string
	LeftLabel  string
	RightLabel string
	Accepted   []string
}

var workshopPairs = []pair{
	{
		ID:         "web-dev",
		LeftLabel:  "Web developer",
		RightLabel: "HTML",
		Accepted:   []string{"html", "hypertext markup language"},
	},
	{
		ID:         "graphic-designer",
		LeftLabel:  "Graphic designer",
		RightLabel: "Photoshop",
		Accepted:   []string{"photoshop", "adobe photoshop"},
	},
	{
		ID:         "video-editor",
		LeftLabel:  "Video editor",
		RightLabel: "Premiere Pro",
		Accepted:   []string{"premiere pro", "adobe premiere pro", "premiere"},
	},
	{
		ID:         "ux-designer",
		LeftLabel:  "UX/UI designer",
		RightLabel: "Figma",
		Accepted:   []string{"figma"},
	},
	{
		ID:         "community-manager",
		LeftLabel:  "Community manager",
		RightLabel: "Canva",
		Accepted:   []string{"canva"},
	},
	{
		ID:         "backend-dev",
		LeftLabel:  "Backend developer",
		RightLabel: "Node.js",
		Accepted:   []string{"node", "nodejs", "node.js"},
	},
}

type riddle struct {
	ID       int
	Clue     string
	Answer   string
	Accepted []string
}

var riddleList = []riddle{
	{
		ID:       1,
		Clue:     "I have keys but open no doors. What am I?",
		Answer:   "keyboard",
		Accepted: []string{"keyboard", "a keyboard"},
	},
	{
		ID:       2,
		Clue:     "I have a tail and I run across your desk, but I am no animal.",
		Answer:   "mouse",
		Accepted: []string{"mouse", "a mouse", "computer mouse"},
	},
	{
		ID:       3,
		Clue:     "Invisible waves carry me through walls so your phone can reach the world.",
		Answer:   "wifi",
		Accepted: []string{"wifi", "wi-fi", "wireless"},
	},
	{
		ID:       4,
		Clue:     "The stronger I am, the harder I am to remember. I keep your accounts safe.",
		Answer:   "password",
		Accepted: []string{"password", "a password"},
	},
	{
		ID:       5,
		Clue:     "I travel the world in seconds and always carry an @ with me.",
		Answer:   "email",
		Accepted: []string{"email", "e-mail", "mail"},
	},
	{
		ID:       6,
		Clue:     "I am your window onto the web; feed me an address and I fetch the page.",
		Answer:   "browser",
		Accepted: []string{"browser", "web browser", "navigator"},
	},
	{
		ID:       7,
		Clue:     "I never sleep, I live in a datacenter, and I answer everyone at once.",
		Answer:   "server",
		Accepted: []string{"server", "a server"},
	},
	{
		ID:       8,
		Clue:     "Your files float in me, yet I hold no water.",
		Answer:   "cloud",
		Accepted: []string{"cloud", "the cloud"},
	},
	{
		ID:       9,
		Clue:     "You stare at me all day, yet I never stare back.",
		Answer:   "screen",
		Accepted: []string{"screen", "a screen", "monitor"},
	},
	{
		ID:       10,
		Clue:     "I am a network of networks, and you are using me right now.",
		Answer:   "internet",
		Accepted: []string{"internet", "the internet", "web"},
	},
}
