// Package prompt builds the instruction text sent to the language model.
package prompt

import (
	"fmt"
	"net/url"
	"strings"
	"text/template"

	"github.com/Guerrilla-Interactive/readmegen/app/form"
)

// System is the fixed system message.
const System = "You are an expert at creating modern, visually appealing GitHub profile READMEs using markdown. " +
	"You know how to use HTML within markdown, badges, GitHub stats widgets, and other visual elements to create engaging profiles."

// User is the account the profile is generated for.
type User struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	AvatarURL      string `json:"avatarUrl"`
	GitHubUsername string `json:"githubUsername"`
}

// DisplayName returns the name, falling back to the email.
func (u User) DisplayName() string {
	if strings.TrimSpace(u.Name) != "" {
		return u.Name
	}
	return u.Email
}

type statLine struct {
	Name  string
	Color string
	URL   string
}

type data struct {
	User         User
	Name         string
	Title        string
	Years        string
	Organization string
	LinkedIn     string
	Summary      string
	TimeZone     string
	Pronouns     string
	Languages    string
	Expertise    string
	Achievements string
	Collab       string
	Mentorship   string
	OpenSource   string
	Contact      string
	FunFacts     string
	Accent       string
	AccentHex    string
	Emojis       string
	Animated     string
	Stats        []statLine
	Trophy       string
	Visitors     string
	Badge        string
}

var tmpl = template.Must(template.New("prompt").Parse(`Create a modern GitHub profile README.md for a developer with the following information:

User Information:
- Name: {{.Name}}
- GitHub Profile: {{.User.GitHubUsername}}
- Avatar URL: {{.User.AvatarURL}}
- Email: {{.User.Email}}

Professional Information:
- Title: {{.Title}}
- Years of Experience: {{.Years}}
- Organization: {{.Organization}}
- LinkedIn: {{.LinkedIn}}
- Summary: {{.Summary}}
- Areas of Expertise: {{.Expertise}}
- Recent Achievements: {{.Achievements}}

Personal Information:
- Pronouns: {{.Pronouns}}
- Time Zone: {{.TimeZone}}
- Languages Spoken: {{.Languages}}
- Open to Collaboration: {{.Collab}}
- Mentorship: {{.Mentorship}}
- Interested in Open Source: {{.OpenSource}}
- Preferred Contact: {{.Contact}}
- Fun Facts: {{.FunFacts}}

Styling Preferences:
- Primary Color: {{.Accent}}
- Use Emojis: {{.Emojis}}
- Animated SVG Elements: {{.Animated}}
- Selected GitHub Stats to Show:{{range .Stats}}
  - {{.Name}} (color {{.Color}}): {{.URL}}{{else}} none{{end}}

Use these exact URLs for widgets:
- Profile trophies: {{.Trophy}}
- Visitor counter: {{.Visitors}}
- Skill badges follow this pattern: {{.Badge}}

Please create a modern, well-structured GitHub profile README.md that:
1. Starts with an eye-catching header using HTML/CSS within markdown, incorporating the user's name and avatar if available
2. Includes all the professional and personal information in a well-organized layout
3. Uses modern markdown formatting{{if eq .Emojis "Yes"}} with emojis{{else}} without emojis{{end}}
4. Incorporates the specified GitHub stats widgets with the user's actual GitHub username
5. Uses badges for technologies and skills
6. Includes appropriate section headers and dividers{{if eq .Animated "Yes"}}, including animated SVG elements{{end}}
7. Adds contact/social media sections including the user's email and GitHub profile
8. Ensures the content is engaging and professional
9. Uses the specified primary color theme where applicable
10. Includes a visitor counter badge

Format the response as valid markdown that can be directly used in a GitHub profile README.md file.`))

// StatURL returns the image URL for a stat card.
func StatURL(stat, username, hex string) string {
	u := url.QueryEscape(username)
	switch stat {
	case "GitHub Stats Card":
		return fmt.Sprintf("https://github-readme-stats.vercel.app/api?username=%s&show_icons=true&title_color=%s&icon_color=%s", u, hex, hex)
	case "Top Languages Card":
		return fmt.Sprintf("https://github-readme-stats.vercel.app/api/top-langs/?username=%s&layout=compact&title_color=%s", u, hex)
	case "GitHub Streak Stats":
		return fmt.Sprintf("https://streak-stats.demolab.com?user=%s&ring=%s&fire=%s&currStreakLabel=%s", u, hex, hex, hex)
	}
	return ""
}

// Build renders the generation prompt. Missing fields render empty.
func Build(s form.State, user User) string {
	accent := s.String(form.KeyAccentColor)
	hex := strings.TrimPrefix(accent, "#")
	username := user.GitHubUsername

	d := data{
		User:         user,
		Name:         user.DisplayName(),
		Title:        s.String(form.KeyProfessionalTitle),
		Years:        s.String(form.KeyYearsExperience),
		Organization: s.String(form.KeyOrganization),
		LinkedIn:     s.String(form.KeyLinkedIn),
		Summary:      s.String(form.KeySummary),
		TimeZone:     s.String(form.KeyTimeZone),
		Pronouns:     s.String(form.KeyPronouns),
		Languages:    strings.Join(s.Strings(form.KeyLanguages), ", "),
		Expertise:    strings.Join(s.Strings(form.KeyExpertise), ", "),
		Achievements: s.String(form.KeyAchievements),
		Collab:       s.String(form.KeyCollaboration),
		Mentorship:   s.String(form.KeyMentorship),
		OpenSource:   s.String(form.KeyOpenSource),
		Contact:      contact(s),
		FunFacts:     s.String(form.KeyFunFacts),
		Accent:       accent,
		AccentHex:    hex,
		Emojis:       yesNo(s.Bool(form.KeyUseEmojis)),
		Animated:     yesNo(s.Bool(form.KeyAnimatedSvg)),
		Trophy:       fmt.Sprintf("https://github-profile-trophy.vercel.app/?username=%s&theme=flat&margin-w=8", url.QueryEscape(username)),
		Visitors:     fmt.Sprintf("https://komarev.com/ghpvc/?username=%s&color=%s", url.QueryEscape(username), hex),
		Badge:        fmt.Sprintf("https://img.shields.io/badge/<Label>-%s?style=for-the-badge&logo=<logo>&logoColor=white", hex),
	}
	st := s.Stats()
	for _, name := range st.Selected {
		c := strings.TrimPrefix(st.Colors[name], "#")
		if c == "" {
			c = hex
		}
		d.Stats = append(d.Stats, statLine{Name: name, Color: "#" + c, URL: StatURL(name, username, c)})
	}

	var b strings.Builder
	// The template only ranges over plain fields, so Execute cannot fail.
	_ = tmpl.Execute(&b, d)
	return b.String()
}

func contact(s form.State) string {
	on := s.EnabledFlags(form.KeyContactPreferences)
	for i, k := range on {
		if l, ok := form.FlagLabels[k]; ok {
			on[i] = l
		}
	}
	return strings.Join(on, ", ")
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
