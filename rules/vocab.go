package rules

// Default vocabulary. Each list maps to one lexicon role; the classifier's
// inclusion paths are conjunctions over these roles.

// defaultCoreTopics are the visa/immigration core subject phrases.
var defaultCoreTopics = []string{
	"visa", "visas", "immigration", "student visa", "graduate route",
	"post-study", "psw", "opt", "pgwp", "work permit", "skilled worker",
	"sponsor licence", "sponsorship", "ukvi", "ircc", "uscis", "sevis",
	"f-1", "j-1", "dependant", "dependent", "ihs", "surcharge",
}

// defaultActionCues signal that a rule or fee is actually changing rather
// than just being discussed.
var defaultActionCues = []string{
	"update", "updated", "change", "changes", "amend", "amended", "amendment",
	"introduce", "introduces", "introduced", "launch", "launched",
	"create", "creates", "created",
	"cap", "caps", "limit", "limits", "ban", "bans", "restrict", "restriction",
	"suspend", "suspended", "revoke", "revoked", "end", "ended", "close", "closed",
	"increase", "increased", "decrease", "decreased", "rise", "raised",
	"fee", "fees", "threshold", "salary threshold", "work hours", "work rights",
}

// defaultMobilityCues tie an item to international student movement
// specifically, as opposed to generic student mentions.
var defaultMobilityCues = []string{
	"international student", "overseas student", "foreign student", "student mobility",
	"graduate route", "post-study", "psw", "opt", "pgwp",
	"inbound student", "outbound student", "study abroad", "exchange",
}

// defaultEduTerms establish a higher-education context.
var defaultEduTerms = []string{
	"higher education", "university", "universities", "college", "campus",
	"degree", "postgraduate", "undergraduate", "admissions", "enrolment", "enrollment",
	"scholarship", "tuition", "ranking", "research", "partnership", "collaboration",
	"faculty", "institution", "education policy", "ministry of education", "department of education",
}

// defaultPolicyTerms mark government or regulatory activity.
var defaultPolicyTerms = []string{
	"policy", "policies", "policy update", "policy changes", "regulation", "regulations",
	"legislation", "legislative", "bill", "act", "ordinance", "decree", "minister",
	"ministry", "department", "government", "cabinet", "white paper", "consultation",
	"directive", "guidance", "statement", "statutory", "gazette", "circular",
}

// defaultExcludes are hard rejections spanning crime, entertainment,
// healthcare, domestic K-12 schooling, tourism-only visas, and
// business/markets noise. An exclusion hit is never overridden.
var defaultExcludes = []string{
	"firearm", "shotgun", "weapons", "asylum", "deportation", "prison",
	"terrorism", "extradition", "passport office", "civil service", "tax credit",
	"entertainment", "documentary", "celebrity", "magazine",
	"primary school", "secondary school", "govt schools", "government schools",
	"k-12", "k12", "schoolchildren",
	"dental", "dentist", "healthcare", "medical", "hospital", "social welfare",
	"tourist visa only", "visitor visa only",
	"ipo", "initial public offering", "listing", "stock exchange", "shares",
	"spin off", "spinoff", "merger", "acquisition", "earnings", "profit", "revenue",
	"venture capital", "startup", "semiconductor", "robotics",
}

// scmpVisaPhrases force acceptance of SCMP coverage of new talent-visa
// categories whose wording slips past the main paths (e.g. the K-visa).
var scmpVisaPhrases = []string{
	"k-visa", "creates new visa", "new visa for young", "young talent visa",
	"young science and technology", "young s&t", "talent visa",
}
