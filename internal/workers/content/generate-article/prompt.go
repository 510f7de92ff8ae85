// internal/workers/content/generate-article/prompt.go
package generatearticle

import (
	"fmt"

	"nanolez-eduai/internal/models"
)

const systemPrompt = "You are an expert educational content creator. Always respond with valid JSON only, no additional text."

func buildPrompt(in *Input) string {
	return fmt.Sprintf(`Create a comprehensive educational article about: %s
Language: %s

Please respond with a JSON object containing exactly this structure:
{
  "title": "Engaging article title",
  "summary": "Brief summary of the article content",
  "sections": [
    {
      "heading": "Section heading",
      "content": "Detailed section content with explanations and examples"
    }
  ],
  "externalResource": {
    "title": "Helpful resource title",
    "url": "https://example.com/resource",
    "source": "Source name"
  }
}

Create 3-4 substantial sections with detailed, educational content. Include practical examples and explanations.`,
		in.Topic, in.Language)
}

func templateArticle(in *Input) *models.Article {
	topic := in.Topic
	return &models.Article{
		Title:   topic + " - Comprehensive Guide",
		Summary: fmt.Sprintf("A detailed guide covering %s with practical examples and best practices for %s learners.", topic, in.Language),
		Sections: []models.ArticleSection{
			{
				Heading: "Introduction to " + topic,
				Content: fmt.Sprintf("Welcome to this comprehensive guide on %s. This article will provide you with a solid foundation and practical insights into the subject. We'll explore key concepts, best practices, and real-world applications to help you master %s.", topic, topic),
			},
			{
				Heading: "Core Concepts and Fundamentals",
				Content: fmt.Sprintf("Understanding the core concepts of %s is essential for building a strong foundation. We'll break down complex ideas into digestible parts, providing clear explanations and practical examples that you can apply in your learning journey.", topic),
			},
			{
				Heading: "Practical Applications and Examples",
				Content: fmt.Sprintf("Theory is important, but practice makes perfect. In this section, we'll explore real-world applications of %s with concrete examples and case studies that demonstrate how these concepts work in practice.", topic),
			},
			{
				Heading: "Advanced Techniques and Best Practices",
				Content: fmt.Sprintf("Once you have a grasp of the fundamentals, it's time to explore advanced techniques. We'll cover best practices, common pitfalls to avoid, and expert tips that will help you excel in %s.", topic),
			},
		},
		ExternalResource: models.ExternalResource{
			Title:  "Learn More About " + topic,
			URL:    "https://www.coursera.org/",
			Source: "Coursera - Online Courses",
		},
	}
}
