package decision

import "time"

// Age returns the applicant's age in whole years on the given date.
func (pc PersonalCode) Age(on time.Time) int {
	age := on.Year() - pc.BirthYear
	m, d := int(on.Month()), on.Day()
	if m < pc.BirthMonth || (m == pc.BirthMonth && d < pc.BirthDay) {
		age--
	}
	return age
}

func (p Policy) AgeEligible(age int) bool {
	return age >= p.MinAge && age <= p.MaxAge
}
