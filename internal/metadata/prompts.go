package metadata

import (
	"fmt"
	"strings"
)

// Input is the free-text context the caller supplies for synthesis.
type Input struct {
	Text     string
	Topic    string
	Audience string
	Style    string
}

// contextBlock combines the inputs into the shared prompt preamble.
func contextBlock(in Input) string {
	var b strings.Builder
	if in.Topic != "" {
		fmt.Fprintf(&b, "Topic: %s\n", in.Topic)
	}
	if in.Text != "" {
		fmt.Fprintf(&b, "Content: %s\n", in.Text)
	}
	audience := in.Audience
	if audience == "" {
		audience = "general"
	}
	style := in.Style
	if style == "" {
		style = "informative"
	}
	fmt.Fprintf(&b, "Target Audience: %s\n", audience)
	fmt.Fprintf(&b, "Style: %s", style)
	return b.String()
}

func titlePrompt(context string) string {
	return fmt.Sprintf(`Generate a compelling YouTube video title based on the following information:
%s

Requirements:
- Maximum 60 characters
- Engaging and click-worthy
- SEO-friendly
- No quotation marks
- Appropriate for the target audience`, context)
}

func descriptionPrompt(context string) string {
	return fmt.Sprintf(`Create a detailed YouTube video description based on the following information:
%s

Requirements:
- Engaging introduction
- Key points covered in the video
- Call to action (like, subscribe, comment)
- 200-500 words
- No timestamps or external links
- SEO-optimized
- Professional tone`, context)
}

func tagsPrompt(context string) string {
	return fmt.Sprintf(`Generate relevant YouTube tags for a video with the following information:
%s

Requirements:
- 10-15 tags
- Mix of broad and specific tags
- SEO-optimized
- Relevant to content
- Return as comma-separated list`, context)
}

func categoryPrompt(context string) string {
	return fmt.Sprintf(`Based on the following video information, suggest the most appropriate YouTube category:
%s

Choose from these categories and return only the category ID number:
1 - Film & Animation
2 - Autos & Vehicles
10 - Music
15 - Pets & Animals
17 - Sports
19 - Travel & Events
20 - Gaming
22 - People & Blogs
23 - Comedy
24 - Entertainment
25 - News & Politics
26 - Howto & Style
27 - Education
28 - Science & Technology

Return only the number.`, context)
}

func keywordsPrompt(text string) string {
	return fmt.Sprintf(`Generate SEO-optimized keywords for a YouTube video based on this content:
%s

Requirements:
- 15-20 relevant keywords
- Mix of broad and specific terms
- Good for YouTube SEO
- Return as comma-separated list`, text)
}
