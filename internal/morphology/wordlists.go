package morphology

func set(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// Conjunctions, prepositions, particles and interjections. Entries are written the way
// normalize leaves them: lowercase, ё folded to е, hyphens removed.
var russianFunctionWords = set(
	// prepositions
	"без", "безо", "близ", "в", "во", "вместо", "вне", "для", "до", "за", "из", "изо",
	"изза", "изпод", "к", "ко", "кроме", "между", "меж", "на", "над", "надо", "о", "об",
	"обо", "от", "ото", "перед", "передо", "пред", "по", "под", "подо", "при", "про",
	"ради", "с", "со", "сквозь", "среди", "у", "через", "чрез", "около", "возле",
	"вокруг", "после", "против", "мимо", "вдоль", "внутри", "сверх", "согласно",
	"благодаря", "вследствие", "насчет", "ввиду", "поперек", "посреди",
	// conjunctions
	"и", "а", "но", "да", "или", "либо", "зато", "однако", "что", "чтобы", "чтоб",
	"если", "хотя", "хоть", "потому", "поэтому", "также", "тоже", "будто", "словно",
	"ибо", "пока", "едва", "причем", "притом", "итак", "дабы", "коли", "нежели",
	"точно", "как", "когда",
	// particles
	"не", "ни", "же", "ж", "ли", "ль", "бы", "б", "вот", "вон", "даже", "уж", "ведь",
	"лишь", "только", "разве", "неужели", "именно", "пусть", "пускай", "ка", "таки",
	"то", "де", "мол", "дескать",
	// interjections
	"ах", "ох", "ой", "эх", "ух", "увы", "ура", "ага", "эй", "ну", "ай", "фу", "тьфу",
	"браво", "алло", "эге", "ого", "ха", "хм",
)

var englishFunctionWords = set(
	// prepositions
	"about", "above", "across", "after", "against", "along", "among", "around", "at",
	"before", "behind", "below", "beneath", "beside", "besides", "between", "beyond",
	"by", "despite", "down", "during", "except", "for", "from", "in", "inside", "into",
	"near", "of", "off", "on", "onto", "out", "outside", "over", "past", "per",
	"through", "throughout", "to", "toward", "towards", "under", "underneath", "unlike",
	"up", "upon", "via", "with", "within", "without",
	// conjunctions
	"and", "or", "but", "nor", "so", "yet", "because", "although", "though", "if",
	"unless", "while", "whereas", "since", "than", "whether", "that", "as", "once",
	"until", "till", "when", "whenever",
	// particles and articles
	"a", "an", "the", "not",
	// interjections
	"oh", "ah", "wow", "hey", "oops", "alas", "ouch", "hmm", "uh", "um", "bravo", "hurray",
)
