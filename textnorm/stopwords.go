package textnorm

// StopwordsEnglish is the default English stopword list. It follows the
// common MySQL/NLTK-style catalog of articles, pronouns, auxiliaries and
// prepositions that carry no discriminative signal for retrieval.
var StopwordsEnglish = []string{
	"a", "about", "above", "after", "again", "against", "all", "am", "an",
	"and", "any", "are", "aren", "as", "at", "be", "because", "been",
	"before", "being", "below", "between", "both", "but", "by", "can",
	"cannot", "could", "couldn", "did", "didn", "do", "does", "doesn",
	"doing", "don", "down", "during", "each", "few", "for", "from",
	"further", "had", "hadn", "has", "hasn", "have", "haven", "having",
	"he", "her", "here", "hers", "herself", "him", "himself", "his", "how",
	"i", "if", "in", "into", "is", "isn", "it", "its", "itself", "just",
	"let", "me", "more", "most", "mustn", "my", "myself", "no", "nor",
	"not", "now", "of", "off", "on", "once", "only", "or", "other",
	"ought", "our", "ours", "ourselves", "out", "over", "own", "same",
	"shan", "she", "should", "shouldn", "so", "some", "such", "than",
	"that", "the", "their", "theirs", "them", "themselves", "then",
	"there", "these", "they", "this", "those", "through", "to", "too",
	"under", "until", "up", "very", "was", "wasn", "we", "were", "weren",
	"what", "when", "where", "which", "while", "who", "whom", "why",
	"will", "with", "won", "would", "wouldn", "you", "your", "yours",
	"yourself", "yourselves",
}

// StopwordsGerman is the default German stopword list; timesheet comments in
// the source data mix English and German, so both sets are applied together.
var StopwordsGerman = []string{
	"aber", "alle", "allem", "allen", "aller", "alles", "als", "also",
	"am", "an", "ander", "andere", "anderem", "anderen", "anderer",
	"anderes", "auch", "auf", "aus", "bei", "bin", "bis", "bist", "da",
	"damit", "dann", "das", "dass", "dein", "deine", "dem", "den", "der",
	"des", "dessen", "dich", "die", "dies", "diese", "diesem", "diesen",
	"dieser", "dieses", "dir", "doch", "dort", "du", "durch", "ein",
	"eine", "einem", "einen", "einer", "eines", "einig", "einige", "er",
	"es", "etwas", "euch", "euer", "eure", "für", "gegen", "gewesen",
	"hab", "habe", "haben", "hat", "hatte", "hatten", "hier", "hin",
	"hinter", "ich", "ihm", "ihn", "ihnen", "ihr", "ihre", "im", "in",
	"indem", "ins", "ist", "ja", "jede", "jedem", "jeden", "jeder",
	"jedes", "jene", "jenem", "jenen", "jener", "jenes", "jetzt", "kann",
	"kein", "keine", "keinem", "keinen", "keiner", "keines", "können",
	"könnte", "machen", "man", "manche", "mein", "meine", "mich", "mir",
	"mit", "muss", "musste", "nach", "nicht", "nichts", "noch", "nun",
	"nur", "ob", "oder", "ohne", "sehr", "sein", "seine", "seinem",
	"seinen", "seiner", "seines", "selbst", "sich", "sie", "sind", "so",
	"solche", "soll", "sollte", "sondern", "sonst", "um", "und", "uns",
	"unser", "unsere", "unter", "viel", "vom", "von", "vor", "während",
	"war", "waren", "warst", "was", "weg", "weil", "weiter", "welche",
	"welchem", "welchen", "welcher", "welches", "wenn", "werde", "werden",
	"wie", "wieder", "will", "wir", "wird", "wirst", "wo", "wollen",
	"wollte", "würde", "würden", "zu", "zum", "zur", "zwar",
	"zwischen", "über",
}
