package assistant

import "strings"

// FallbackAnalysis is served whenever the gateway cannot produce an analysis.
func FallbackAnalysis() SymptomAnalysis {
	return SymptomAnalysis{
		PossibleConditions:   []string{"Common cold", "Seasonal allergies", "Sinus infection"},
		RecommendedMedicines: []string{"Antihistamines", "Decongestants", "Pain relievers"},
		SelfCareAdvice:       []string{"Rest", "Stay hydrated", "Use a humidifier", "Saline nasal spray"},
		WhenToSeeDoctor:      "If symptoms last more than 10 days, you develop a high fever, or symptoms are severe or getting worse.",
	}
}

// FallbackMedicineInfo is served whenever the gateway cannot identify a
// medicine.
func FallbackMedicineInfo() MedicineInfo {
	return MedicineInfo{
		Name:             "Acetaminophen (Tylenol)",
		ActiveIngredient: "Acetaminophen",
		Dosage:           "325-650mg every 4-6 hours as needed, not exceeding 3000mg per day",
		Usages:           []string{"Pain relief", "Fever reduction", "Headache", "Minor aches and pains"},
		SideEffects:      []string{"Nausea", "Stomach pain", "Loss of appetite", "Headache", "Rash"},
		Interactions:     []string{"Alcohol", "Warfarin", "Isoniazid", "Carbamazepine"},
		Precautions:      []string{"Liver disease", "Alcohol use", "Pregnancy", "Kidney disease"},
	}
}

type cannedReply struct {
	keywords []string
	reply    string
}

// Checked in order; the first entry with a matching keyword wins.
var cannedReplies = []cannedReply{
	{
		[]string{"paracetamol", "acetaminophen", "tylenol"},
		"Paracetamol (acetaminophen) treats pain and fever. The usual adult dose is 500-1000mg every 4-6 hours, no more than 4000mg in 24 hours. Too much can damage the liver, so follow the label or your doctor's directions.",
	},
	{
		[]string{"ibuprofen", "advil", "motrin"},
		"Ibuprofen is an NSAID for pain, inflammation and fever. The usual adult dose is 200-400mg every 4-6 hours, no more than 1200mg a day unless a doctor says otherwise. Take it with food, and ask a doctor first if you have heart, blood pressure or kidney problems.",
	},
	{
		[]string{"aspirin"},
		"Aspirin treats pain, fever and inflammation, and low doses (75-81mg) are used to prevent heart attacks and strokes in high-risk people. Do not give it to children or teenagers with viral illnesses. Talk to a doctor before starting daily aspirin.",
	},
	{
		[]string{"headache"},
		"Headaches often come from stress, dehydration, poor sleep or eye strain. Paracetamol or ibuprofen can help occasional headaches, as can water, rest and regular sleep. See a doctor if they are severe, frequent or come with other symptoms.",
	},
	{
		[]string{"fever", "temperature"},
		"A temperature above 38°C (100.4°F) is a fever, usually a sign of infection. Rest, fluids and paracetamol or ibuprofen help. Seek care if it goes above 39.4°C (103°F), lasts more than three days, or comes with severe symptoms.",
	},
	{
		[]string{"cold", "flu", "cough", "congestion"},
		"Colds and flu bring cough, congestion, sore throat and aches. Rest, fluids, decongestants and cough suppressants ease symptoms. Most colds clear in 7-10 days; see a doctor if you get worse or do not improve.",
	},
	{
		[]string{"allergy", "allergies", "allergic"},
		"Allergies cause sneezing, itching, a runny nose and watery eyes. Antihistamines, nasal steroid sprays and avoiding triggers help. Difficulty breathing or swelling is an emergency: get help immediately.",
	},
	{
		[]string{"sleep", "insomnia"},
		"Adults need 7-9 hours of sleep. Keep a regular schedule, limit screens and caffeine before bed, and stay active during the day. Ongoing sleep problems are worth raising with a doctor.",
	},
	{
		[]string{"diet", "nutrition", "eat"},
		"A balanced diet has fruit, vegetables, whole grains, lean protein and healthy fats, with little processed food, sugar or salt. Needs vary, so a doctor or dietitian can give personal advice.",
	},
	{
		[]string{"exercise", "workout", "physical activity"},
		"Aim for 150 minutes of moderate or 75 minutes of vigorous activity a week, plus strength work on two days. Start gradually and check with a doctor before a new program.",
	},
}

const defaultReply = "I can only give general information right now. For advice about your situation, please talk to a healthcare professional who knows your history and medicines."

// FallbackReply picks a canned answer for query by keyword.
func FallbackReply(query string) string {
	q := strings.ToLower(query)
	for _, c := range cannedReplies {
		for _, k := range c.keywords {
			if strings.Contains(q, k) {
				return c.reply
			}
		}
	}
	return defaultReply
}
