package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"reflect"
	"time"
)

var timeType = reflect.TypeOf(time.Time{})

// JSONResponse sends a JSON response and ensures slices are never null.
// Clients iterate answer lists directly, so a nil slice must encode as [].
func JSONResponse(w http.ResponseWriter, data interface{}) error {
	normalized := normalizeSlices(data)

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(normalized)
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := JSONResponse(w, payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// normalizeSlices recursively ensures all nil slices become empty slices
func normalizeSlices(data interface{}) interface{} {
	if data == nil {
		return data
	}

	v := reflect.ValueOf(data)

	switch v.Kind() {
	case reflect.Ptr:
		if v.IsNil() {
			return data
		}
		elem := v.Elem()
		if elem.Type() == timeType {
			return data
		}

		result := reflect.New(elem.Type())
		result.Elem().Set(valueOf(normalizeSlices(elem.Interface()), elem.Type()))
		return result.Interface()

	case reflect.Slice:
		if v.IsNil() {
			return reflect.MakeSlice(v.Type(), 0, 0).Interface()
		}
		// json.RawMessage and other byte slices are encoded as-is
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return data
		}

		result := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			result.Index(i).Set(valueOf(normalizeSlices(v.Index(i).Interface()), v.Type().Elem()))
		}
		return result.Interface()

	case reflect.Map:
		if v.IsNil() {
			return data
		}
		result := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			result.SetMapIndex(iter.Key(), valueOf(normalizeSlices(iter.Value().Interface()), v.Type().Elem()))
		}
		return result.Interface()

	case reflect.Struct:
		if v.Type() == timeType {
			return data
		}

		result := reflect.New(v.Type()).Elem()
		for i := 0; i < v.NumField(); i++ {
			field := v.Field(i)
			if !v.Type().Field(i).IsExported() {
				continue
			}

			switch field.Kind() {
			case reflect.Slice, reflect.Ptr, reflect.Struct, reflect.Map:
				result.Field(i).Set(valueOf(normalizeSlices(field.Interface()), field.Type()))
			default:
				result.Field(i).Set(field)
			}
		}
		return result.Interface()
	}

	return data
}

// valueOf converts a normalized value back to a reflect.Value of typ; nil becomes the zero value
func valueOf(normalized interface{}, typ reflect.Type) reflect.Value {
	if normalized == nil {
		return reflect.Zero(typ)
	}
	return reflect.ValueOf(normalized)
}
