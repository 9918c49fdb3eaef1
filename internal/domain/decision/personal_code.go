package decision

import (
	"strconv"
	"time"
)

const personalCodeLen = 11

// PersonalCode is the decomposed form of an 11-digit national identifier.
type PersonalCode struct {
	BirthYear  int
	BirthMonth int
	BirthDay   int
	Segment    int
}

// ParsePersonalCode splits the code into birth date parts and the trailing
// 4-digit segment. Month and day are taken as written; use
// ValidatePersonalCode for a full structural check.
func ParsePersonalCode(code string) (PersonalCode, error) {
	if len(code) != personalCodeLen || !allDigits(code) {
		return PersonalCode{}, ErrInvalidPersonalCode
	}
	century, ok := centuryBase(code[0])
	if !ok {
		return PersonalCode{}, ErrInvalidPersonalCode
	}
	yy, _ := strconv.Atoi(code[1:3])
	mm, _ := strconv.Atoi(code[3:5])
	dd, _ := strconv.Atoi(code[5:7])
	seg, _ := strconv.Atoi(code[personalCodeLen-4:])

	return PersonalCode{
		BirthYear:  century + yy,
		BirthMonth: mm,
		BirthDay:   dd,
		Segment:    seg,
	}, nil
}

// ValidatePersonalCode checks length, digits, century, the birth date and
// the check digit.
func ValidatePersonalCode(code string) error {
	pc, err := ParsePersonalCode(code)
	if err != nil {
		return err
	}
	if !validDate(pc.BirthYear, pc.BirthMonth, pc.BirthDay) {
		return ErrInvalidPersonalCode
	}
	if checkDigit(code) != int(code[personalCodeLen-1]-'0') {
		return ErrInvalidPersonalCode
	}
	return nil
}

func centuryBase(d byte) (int, bool) {
	switch d {
	case '1', '2':
		return 1800, true
	case '3', '4':
		return 1900, true
	case '5', '6':
		return 2000, true
	}
	return 0, false
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func validDate(y, m, d int) bool {
	if m < 1 || m > 12 || d < 1 {
		return false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return t.Month() == time.Month(m) && t.Day() == d
}

var (
	checkWeights1 = [10]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 1}
	checkWeights2 = [10]int{3, 4, 5, 6, 7, 8, 9, 1, 2, 3}
)

func checkDigit(code string) int {
	mod := weightedMod11(code, checkWeights1)
	if mod < 10 {
		return mod
	}
	mod = weightedMod11(code, checkWeights2)
	if mod < 10 {
		return mod
	}
	return 0
}

func weightedMod11(code string, w [10]int) int {
	sum := 0
	for i := 0; i < 10; i++ {
		sum += int(code[i]-'0') * w[i]
	}
	return sum % 11
}
