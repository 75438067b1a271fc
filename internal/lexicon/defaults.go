package lexicon

import "github.com/vinodlearning/contractnlp/pkg/models"

// Semantic cluster ids used for context scoring in the typo corrector.
const (
	clusterContract = iota
	clusterCustomer
	clusterPayment
	clusterStatus
)

// mergeDefaults loads the built-in dictionaries into the builder. The data
// mirrors the vocabulary of the contracts/parts business domain plus enough
// general English to make edit-distance and phonetic matching useful.
func (b *Builder) mergeDefaults() {
	lex := b.lex

	// Curated valid words. Frequencies are relative corpus weights in [0,1];
	// domain terms are weighted above generic English so edit-distance ties
	// resolve toward the business vocabulary.
	freqWords := map[string]float64{
		"contract": 0.98, "contracts": 0.90, "part": 0.95, "parts": 0.92,
		"customer": 0.90, "customers": 0.80, "account": 0.85, "accounts": 0.70,
		"invoice": 0.80, "invoices": 0.65, "payment": 0.85, "payments": 0.70,
		"order": 0.80, "orders": 0.70, "status": 0.90, "failed": 0.85,
		"failure": 0.70, "active": 0.75, "expired": 0.70, "pending": 0.75,
		"approved": 0.70, "rejected": 0.60, "cancelled": 0.60, "completed": 0.65,
		"shipped": 0.55, "delivered": 0.55, "number": 0.80, "name": 0.70,
		"show": 0.85, "list": 0.80, "find": 0.80, "search": 0.75, "get": 0.80,
		"display": 0.60, "lookup": 0.55, "check": 0.70, "details": 0.65,
		"specification": 0.50, "specifications": 0.50, "datasheet": 0.45,
		"warranty": 0.50, "supplier": 0.50, "vendor": 0.50, "price": 0.60,
		"amount": 0.65, "total": 0.60, "balance": 0.55, "due": 0.55,
		"date": 0.70, "today": 0.55, "yesterday": 0.45, "month": 0.55,
		"year": 0.55, "report": 0.60, "summary": 0.50, "history": 0.50,
		"priority": 0.55, "urgent": 0.50, "high": 0.60, "low": 0.55,
		"medium": 0.50, "department": 0.50, "email": 0.60, "phone": 0.60,
		"address": 0.55, "company": 0.65, "manager": 0.50, "renewal": 0.45,
		"renew": 0.45, "expiry": 0.45, "expiration": 0.45, "terms": 0.55,
		"condition": 0.45, "conditions": 0.45, "quantity": 0.50, "unit": 0.45,
		"units": 0.45, "stock": 0.50, "inventory": 0.50, "shipment": 0.45,
		"delivery": 0.50, "tracking": 0.45, "refund": 0.45, "credit": 0.50,
		"debit": 0.40, "tax": 0.50, "discount": 0.45, "quote": 0.45,
		"purchase": 0.55, "sales": 0.50, "billing": 0.50, "paid": 0.55,
		"unpaid": 0.45, "overdue": 0.45, "open": 0.60, "closed": 0.55,
		"ready": 0.55, "available": 0.50, "serial": 0.45, "model": 0.50,
		"product": 0.55, "component": 0.45, "assembly": 0.40, "defective": 0.40,
		"replacement": 0.40, "repair": 0.45, "return": 0.50, "issue": 0.50,
		"problem": 0.50, "error": 0.50, "request": 0.50, "approve": 0.45,
		"review": 0.45, "update": 0.55, "create": 0.50, "created": 0.50,
		"modified": 0.40, "deleted": 0.40, "help": 0.55, "info": 0.50,
		"information": 0.55, "all": 0.70, "new": 0.65, "old": 0.50,
		"last": 0.55, "recent": 0.45, "current": 0.55, "previous": 0.45,
	}
	for w, f := range freqWords {
		b.AddValidWord(w, f)
	}

	// General English filler so soundex/edit-distance matching has a
	// realistic search space and already-correct sentences pass untouched.
	general := []string{
		"the", "a", "an", "and", "or", "but", "for", "with", "from", "this",
		"that", "these", "those", "what", "which", "who", "when", "where",
		"why", "how", "is", "are", "was", "were", "be", "been", "being",
		"have", "has", "had", "do", "does", "did", "will", "would", "can",
		"could", "should", "may", "might", "must", "shall", "not", "no",
		"yes", "please", "me", "my", "you", "your", "we", "our", "they",
		"their", "it", "its", "of", "on", "in", "at", "to", "by", "as",
		"about", "after", "before", "between", "under", "over", "into",
		"need", "want", "give", "tell", "see", "view", "call", "contact",
		"send", "make", "take", "know", "work", "working", "ago", "now",
		"many", "much", "more", "most", "some", "any", "each", "every",
		"other", "than", "then", "there", "here", "also", "only", "just",
		"against", "during", "within", "without", "per", "via",
	}
	for _, w := range general {
		b.AddValidWord(w, 0.3)
	}

	// Domain dictionary: frequent domain-specific variants mapped straight
	// to canonical forms, matched before any statistical strategy.
	domain := map[string]string{
		"contrct": "contract", "contrac": "contract", "cntract": "contract",
		"contracs": "contracts", "prt": "part", "prts": "parts",
		"custmer": "customer", "custmr": "customer", "cstomer": "customer",
		"invoce": "invoice", "invce": "invoice", "paymnt": "payment",
		"pymt": "payment", "acount": "account", "accnt": "account",
		"statuss": "status", "stats": "status", "warrenty": "warranty",
		"expirey": "expiry", "expred": "expired", "faild": "failed",
		"failr": "failure", "shiped": "shipped", "delievered": "delivered",
		"cancled": "cancelled", "aproved": "approved",
	}
	for k, v := range domain {
		b.AddDomainTerm(k, v)
	}

	// Known-typo table with ordered suggestion lists. First entry is the
	// most common resolution; context scoring may promote a later one.
	typos := []struct {
		typo        string
		suggestions []string
	}{
		{"teh", []string{"the"}},
		{"adn", []string{"and"}},
		{"nad", []string{"and"}},
		{"waht", []string{"what"}},
		{"wich", []string{"which"}},
		{"shwo", []string{"show"}},
		{"sohw", []string{"show"}},
		{"lsit", []string{"list"}},
		{"fnd", []string{"find", "fund"}},
		{"serach", []string{"search"}},
		{"sarch", []string{"search"}},
		{"chekc", []string{"check"}},
		{"staus", []string{"status"}},
		{"statsu", []string{"status"}},
		{"detials", []string{"details"}},
		{"numbr", []string{"number"}},
		{"amunt", []string{"amount"}},
		{"pirce", []string{"price"}},
		{"oder", []string{"order", "odor"}},
		{"recieve", []string{"receive"}},
		{"payed", []string{"paid"}},
		{"expird", []string{"expired"}},
		{"activ", []string{"active"}},
		{"pendng", []string{"pending"}},
		{"compny", []string{"company"}},
		{"emal", []string{"email"}},
		{"adress", []string{"address"}},
		{"prioirty", []string{"priority"}},
		{"departmnt", []string{"department"}},
	}
	for _, t := range typos {
		b.AddTypo(t.typo, t.suggestions...)
	}

	// Abbreviation table for token-level expansion in the typo corrector.
	abbrs := map[string]string{
		"qty": "quantity", "amt": "amount", "acct": "account",
		"cust": "customer", "dept": "department", "inv": "invoice",
		"pmt": "payment", "num": "number",
		"spec": "specification", "specs": "specifications",
		"mgr": "manager", "asap": "as soon as possible",
		"approx": "approximately", "info": "information",
		"min": "minimum", "max": "maximum", "avg": "average",
	}
	for k, v := range abbrs {
		b.AddAbbreviation(k, v)
	}

	// Contextual bigram corrections. Keys are "prev_word" or "word_next".
	bigrams := map[string]string{
		"contract_no":    "number",
		"part_no":        "number",
		"account_no":     "number",
		"show_me":        "me",
		"of_teh":         "the",
		"for_teh":        "the",
		"all_contrcts":   "contracts",
		"failed_prt":     "part",
		"failed_prts":    "parts",
		"customer_naem":  "name",
		"due_data":       "date",
		"expiry_data":    "date",
	}
	for k, v := range bigrams {
		b.AddBigram(k, v)
	}

	// Semantic clusters used by the typo table's context scoring.
	clusterTerms := map[int][]string{
		clusterContract: {"contract", "contracts", "agreement", "terms",
			"renewal", "expiry", "expiration", "expired", "warranty", "clause"},
		clusterCustomer: {"customer", "customers", "client", "account",
			"company", "name", "contact", "email", "phone", "address"},
		clusterPayment: {"payment", "payments", "invoice", "amount", "price",
			"paid", "unpaid", "balance", "due", "refund", "billing", "total"},
		clusterStatus: {"status", "active", "pending", "failed", "expired",
			"approved", "rejected", "cancelled", "completed", "open", "closed"},
	}
	for id, terms := range clusterTerms {
		for _, t := range terms {
			lex.clusters[t] = id
		}
	}

	// Contractions expanded during normalization.
	contractions := map[string]string{
		"don't": "do not", "doesn't": "does not", "didn't": "did not",
		"can't": "cannot", "won't": "will not", "wouldn't": "would not",
		"shouldn't": "should not", "couldn't": "could not",
		"isn't": "is not", "aren't": "are not", "wasn't": "was not",
		"weren't": "were not", "hasn't": "has not", "haven't": "have not",
		"hadn't": "had not", "i'm": "i am", "i've": "i have",
		"i'll": "i will", "i'd": "i would", "you're": "you are",
		"you've": "you have", "we're": "we are", "we've": "we have",
		"they're": "they are", "it's": "it is", "that's": "that is",
		"what's": "what is", "there's": "there is", "let's": "let us",
	}
	for k, v := range contractions {
		lex.contractions[k] = v
	}

	// Chat slang normalized to plain English.
	slang := map[string]string{
		"u": "you", "ur": "your", "r": "are", "pls": "please",
		"plz": "please", "thx": "thanks", "tnx": "thanks", "gimme": "give me",
		"wanna": "want to", "gonna": "going to", "gotta": "got to",
		"lemme": "let me", "kinda": "kind of", "dunno": "do not know",
		"cuz": "because", "coz": "because", "b4": "before", "2day": "today",
		"asap": "as soon as possible", "btw": "by the way", "fyi": "for your information",
	}
	for k, v := range slang {
		lex.slang[k] = v
	}

	// Business shorthand expanded during normalization.
	business := map[string]string{
		"po":  "purchase order",
		"sow": "statement of work",
		"nda": "non disclosure agreement",
		"sla": "service level agreement",
		"eta": "estimated arrival",
		"eod": "end of day",
		"eom": "end of month",
		"ar":  "accounts receivable",
		"ap":  "accounts payable",
		"rma": "return merchandise authorization",
	}
	for k, v := range business {
		lex.business[k] = v
	}

	// Static misspelling table applied by the normalizer's spelling stage.
	misspellings := map[string]string{
		"recieve": "receive", "seperate": "separate", "occured": "occurred",
		"definately": "definitely", "untill": "until", "wich": "which",
		"thier": "their", "becuase": "because", "tommorow": "tomorrow",
		"alot": "a lot", "paymant": "payment", "availible": "available",
		"recieved": "received", "adress": "address", "buisness": "business",
	}
	for k, v := range misspellings {
		lex.misspellings[k] = v
	}

	// Synonym canonicalization so downstream keyword matching sees a
	// single surface form.
	synonyms := map[string]string{
		"display": "show", "exhibit": "show", "present": "show",
		"locate": "find", "retrieve": "find", "fetch": "find",
		"client": "customer", "buyer": "customer", "purchaser": "customer",
		"agreement": "contract", "deal": "contract",
		"bill": "invoice", "receipt": "invoice",
		"cost": "price", "charge": "price",
		"broken": "failed", "defective": "failed", "faulty": "failed",
	}
	for k, v := range synonyms {
		lex.synonyms[k] = v
	}

	// Emoji translated to words before punctuation handling.
	emoji := map[string]string{
		"\U0001F44D": "good", "\U0001F44E": "bad", "\U0001F600": "happy",
		"\U0001F641": "sad", "❗": "urgent", "❓": "question",
		"✅": "done", "❌": "failed", "\U0001F4B0": "money",
		"\U0001F4C4": "document", "\U0001F4E7": "email", "\U0001F4DE": "phone",
	}
	for k, v := range emoji {
		lex.emoji[k] = v
	}

	// Profanity masked as [filtered] during normalization. Kept mild; the
	// point is the mechanism, packs can extend the list.
	for _, w := range []string{"damn", "hell", "crap", "stupid", "idiot"} {
		lex.profanity[w] = true
	}

	// General stop words for optional stopword removal.
	stops := []string{
		"a", "an", "and", "are", "as", "at", "be", "by", "for", "from",
		"has", "he", "in", "is", "it", "its", "of", "on", "that", "the",
		"to", "was", "were", "will", "with", "i", "me", "my", "you",
		"your", "we", "our", "they", "their", "this", "these", "those",
		"do", "does", "did", "have", "had", "can", "could", "would",
		"should", "what", "which", "when", "where", "how", "am",
	}
	for _, w := range stops {
		b.AddStopWord(w)
	}

	// Business stop words survive stopword removal: they change the meaning
	// of a business query ("not paid", "between january and march").
	for _, w := range []string{"not", "no", "between", "before", "after", "under", "over", "due"} {
		lex.businessStopWords[w] = true
	}

	// Proper nouns and acronyms recapitalized by the grammar enforcer.
	for _, p := range []string{
		"Boeing", "Honeywell", "Siemens", "Acme", "January", "February",
		"March", "April", "May", "June", "July", "August", "September",
		"October", "November", "December", "Monday", "Tuesday", "Wednesday",
		"Thursday", "Friday", "Saturday", "Sunday", "USD", "EUR", "GBP",
	} {
		b.AddProperNoun(p)
	}

	// Curated known entities for the fuzzy resolution pass.
	known := map[string]models.EntityType{
		"boeing":            models.EntityCompanyName,
		"honeywell":         models.EntityCompanyName,
		"siemens":           models.EntityCompanyName,
		"acme corporation":  models.EntityCompanyName,
		"john smith":        models.EntityPersonName,
		"jane doe":          models.EntityPersonName,
		"engineering":       models.EntityDepartment,
		"procurement":       models.EntityDepartment,
		"finance":           models.EntityDepartment,
	}
	for v, t := range known {
		b.AddKnownEntity(v, t)
	}

	lex.statusValues = []string{
		"active", "inactive", "pending", "approved", "rejected", "expired",
		"cancelled", "completed", "failed", "shipped", "delivered", "open",
		"closed", "on hold", "in progress", "overdue", "paid", "unpaid",
	}
	lex.priorities = []string{"critical", "urgent", "high", "medium", "low"}
	lex.departments = []string{
		"engineering", "procurement", "finance", "legal", "sales",
		"operations", "quality", "logistics", "support",
	}
	lex.currencies = []string{"usd", "eur", "gbp", "jpy", "cad", "dollar", "dollars", "euro", "euros", "pound", "pounds"}
}
