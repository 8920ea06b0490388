package catalog

// defaultDomains is the built-in roadmap set.
var defaultDomains = []Domain{
	{
		Name: "Frontend Development",
		Steps: []Step{
			{ID: "html-css", Title: "HTML & CSS Basics", Description: "Learn HTML tags and CSS fundamentals"},
			{ID: "js-fund", Title: "JavaScript Fundamentals", Description: "Variables, loops, functions"},
			{ID: "react-basics", Title: "React Basics", Description: "Components, state, props"},
		},
	},
	{
		Name: "Backend Development",
		Steps: []Step{
			{ID: "python-basics", Title: "Python Basics", Description: "Syntax, data structures"},
			{ID: "api-design", Title: "API Design", Description: "REST principles & auth"},
			{ID: "database", Title: "Databases", Description: "MongoDB CRUD & indexing"},
		},
	},
	{
		Name: "AI & ML",
		Steps: []Step{
			{ID: "py-numpy", Title: "Python + NumPy", Description: "Data handling with NumPy"},
			{ID: "pandas-ml", Title: "Pandas & ML Intro", Description: "Pandas, scikit-learn basics"},
			{ID: "models", Title: "Models & Evaluation", Description: "Train/test split, metrics"},
		},
	},
}

// Default returns the built-in catalog with the default policy.
func Default() *Catalog {
	return MustNew(defaultDomains, DefaultPolicy())
}
