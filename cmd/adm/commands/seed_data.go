package commands

// defaultSeedQuestions is the built-in starter catalog, a small spread of
// general-knowledge questions covering the full difficulty scale so a fresh
// deployment can serve every difficulty range.
var defaultSeedQuestions = []seedQuestion{
	{
		Prompt:     "What is 2 + 2?",
		Choices:    []string{"3", "4", "5", "6"},
		Answer:     "4",
		Difficulty: 1,
		Tags:       []string{"math"},
	},
	{
		Prompt:     "What color is the sky on a clear day?",
		Choices:    []string{"Blue", "Green", "Red", "Yellow"},
		Answer:     "Blue",
		Difficulty: 1,
		Tags:       []string{"general"},
	},
	{
		Prompt:     "How many days are there in a week?",
		Choices:    []string{"5", "6", "7", "8"},
		Answer:     "7",
		Difficulty: 2,
		Tags:       []string{"general"},
	},
	{
		Prompt:     "What is the capital of France?",
		Choices:    []string{"London", "Berlin", "Paris", "Madrid"},
		Answer:     "Paris",
		Difficulty: 2,
		Tags:       []string{"geography"},
	},
	{
		Prompt:     "Which planet is known as the Red Planet?",
		Choices:    []string{"Venus", "Mars", "Jupiter", "Saturn"},
		Answer:     "Mars",
		Difficulty: 3,
		Tags:       []string{"science"},
	},
	{
		Prompt:     "What is 12 x 12?",
		Choices:    []string{"124", "144", "154", "164"},
		Answer:     "144",
		Difficulty: 3,
		Tags:       []string{"math"},
	},
	{
		Prompt:     "Who wrote 'Romeo and Juliet'?",
		Choices:    []string{"Charles Dickens", "William Shakespeare", "Jane Austen", "Mark Twain"},
		Answer:     "William Shakespeare",
		Difficulty: 4,
		Tags:       []string{"literature"},
	},
	{
		Prompt:     "What is the chemical symbol for gold?",
		Choices:    []string{"Go", "Gd", "Au", "Ag"},
		Answer:     "Au",
		Difficulty: 4,
		Tags:       []string{"science"},
	},
	{
		Prompt:     "In which year did World War II end?",
		Choices:    []string{"1943", "1944", "1945", "1946"},
		Answer:     "1945",
		Difficulty: 5,
		Tags:       []string{"history"},
	},
	{
		Prompt:     "What is the largest organ of the human body?",
		Choices:    []string{"Liver", "Brain", "Skin", "Heart"},
		Answer:     "Skin",
		Difficulty: 5,
		Tags:       []string{"science"},
	},
	{
		Prompt:     "Which element has the atomic number 6?",
		Choices:    []string{"Oxygen", "Carbon", "Nitrogen", "Boron"},
		Answer:     "Carbon",
		Difficulty: 6,
		Tags:       []string{"science"},
	},
	{
		Prompt:     "What is the square root of 289?",
		Choices:    []string{"15", "16", "17", "18"},
		Answer:     "17",
		Difficulty: 6,
		Tags:       []string{"math"},
	},
	{
		Prompt:     "Who developed the theory of general relativity?",
		Choices:    []string{"Isaac Newton", "Albert Einstein", "Niels Bohr", "Max Planck"},
		Answer:     "Albert Einstein",
		Difficulty: 7,
		Tags:       []string{"science"},
	},
	{
		Prompt:     "Which country was the first to grant women the right to vote?",
		Choices:    []string{"United States", "United Kingdom", "New Zealand", "France"},
		Answer:     "New Zealand",
		Difficulty: 7,
		Tags:       []string{"history"},
	},
	{
		Prompt:     "What is the derivative of x^3?",
		Choices:    []string{"x^2", "3x^2", "3x", "x^3/3"},
		Answer:     "3x^2",
		Difficulty: 8,
		Tags:       []string{"math"},
	},
	{
		Prompt:     "Which philosopher wrote 'Critique of Pure Reason'?",
		Choices:    []string{"Hegel", "Kant", "Nietzsche", "Descartes"},
		Answer:     "Kant",
		Difficulty: 8,
		Tags:       []string{"philosophy"},
	},
	{
		Prompt:     "What is the time complexity of binary search?",
		Choices:    []string{"O(n)", "O(n log n)", "O(log n)", "O(1)"},
		Answer:     "O(log n)",
		Difficulty: 9,
		Tags:       []string{"computing"},
	},
	{
		Prompt:     "Which particle mediates the electromagnetic force?",
		Choices:    []string{"Gluon", "Photon", "W boson", "Graviton"},
		Answer:     "Photon",
		Difficulty: 9,
		Tags:       []string{"science"},
	},
	{
		Prompt:     "What is the value of the Riemann zeta function at s = 2?",
		Choices:    []string{"pi^2/6", "pi/4", "e^2", "1/2"},
		Answer:     "pi^2/6",
		Difficulty: 10,
		Tags:       []string{"math"},
	},
	{
		Prompt:     "Which year saw the publication of Godel's incompleteness theorems?",
		Choices:    []string{"1921", "1931", "1941", "1951"},
		Answer:     "1931",
		Difficulty: 10,
		Tags:       []string{"math", "history"},
	},
}
