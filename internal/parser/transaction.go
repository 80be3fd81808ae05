package parser

import (
	"errors"
	"strconv"
	"strings"

	"github.com/ivanoskov/walriust/internal/model"
)

type parseState int

const (
	stateStart parseState = iota
	stateFindShopOrAmount
	stateFindNote
	stateEnd
)

// ParseTransaction разбирает сообщение вида
// <категория> [магазин...] <сумма> [заметка...].
//
// Слово перед числом считается частью названия магазина. Если число
// стоит сразу на месте текущего токена, накопленное название сбрасывается.
func ParseTransaction(msg string) (model.ParsedTransaction, bool) {
	tokens := newTokenStream(msg)

	var (
		result model.ParsedTransaction
		shop   []string
	)

	state := stateStart
	for state != stateEnd {
		switch state {
		case stateStart:
			tok, ok := tokens.Next()
			if !ok {
				return model.ParsedTransaction{}, false
			}
			category, ok := model.LookupCategory(tok)
			if !ok {
				return model.ParsedTransaction{}, false
			}
			result.Category = category
			state = stateFindShopOrAmount

		case stateFindShopOrAmount:
			tok, ok := tokens.Next()
			if !ok {
				return model.ParsedTransaction{}, false
			}

			if ahead, ok := tokens.Peek(); ok {
				if amount, ok := parseAmount(ahead); ok {
					shop = append(shop, tok)
					result.Amount = amount
					tokens.Next()
					state = stateFindNote
					continue
				}
			}

			if amount, ok := parseAmount(tok); ok {
				shop = nil
				result.Amount = amount
				state = stateFindNote
				continue
			}

			shop = append(shop, tok)

		case stateFindNote:
			var note []string
			for {
				tok, ok := tokens.Next()
				if !ok {
					break
				}
				note = append(note, tok)
			}
			result.Note = strings.Join(note, " ")
			state = stateEnd
		}
	}

	result.ShopName = strings.Join(shop, " ")
	return result, true
}

// parseAmount принимает десятичную запись strconv.ParseFloat, включая
// отрицательные числа, экспоненту, Inf и NaN. Переполнение дает ±Inf.
// Шестнадцатеричные числа и разделители "_" не считаются суммой.
func parseAmount(tok string) (int64, bool) {
	if strings.ContainsRune(tok, '_') {
		return 0, false
	}
	unsigned := strings.TrimLeft(tok, "+-")
	if len(unsigned) >= 2 && unsigned[0] == '0' && (unsigned[1] == 'x' || unsigned[1] == 'X') {
		return 0, false
	}

	v, err := strconv.ParseFloat(tok, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return model.CentsFromFloat(v), true
}
