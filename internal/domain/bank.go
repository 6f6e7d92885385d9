package domain

import "fmt"

// ValidateBank checks that bank can fill a round and that every entry is well formed.
func ValidateBank(bank []BankEntry) error {
	if len(bank) < QuestionsPerRound {
		return fmt.Errorf("%w: have %d, need %d", ErrInsufficientContent, len(bank), QuestionsPerRound)
	}
	seen := make(map[string]struct{}, len(bank))
	for i, entry := range bank {
		if err := ValidateEntry(entry); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
		if _, dup := seen[entry.ID]; dup {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidBankEntry, entry.ID)
		}
		seen[entry.ID] = struct{}{}
	}
	return nil
}

// ValidateEntry checks a single bank entry.
func ValidateEntry(entry BankEntry) error {
	if entry.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidBankEntry)
	}
	if len(entry.Options) != OptionsPerQuestion {
		return fmt.Errorf("%w: %q has %d options", ErrInvalidBankEntry, entry.ID, len(entry.Options))
	}
	if entry.Answer < 0 || entry.Answer >= len(entry.Options) {
		return fmt.Errorf("%w: %q answer index %d out of range", ErrInvalidBankEntry, entry.ID, entry.Answer)
	}
	return nil
}
