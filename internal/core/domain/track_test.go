package domain

import (
	"errors"
	"math"
	"testing"
)

func TestFeatureVector_Values(t *testing.T) {
	tests := []struct {
		name    string
		vector  FeatureVector
		wantErr error
	}{
		{
			name:    "full canonical vector",
			vector:  testVector(120, 0.5),
			wantErr: nil,
		},
		{
			name: "missing key",
			vector: func() FeatureVector {
				fv := testVector(120, 0.5)
				delete(fv, "mfcc_mean")
				return fv
			}(),
			wantErr: ErrFeatureKeyMismatch,
		},
		{
			name: "extra key",
			vector: func() FeatureVector {
				fv := testVector(120, 0.5)
				fv["energy"] = 0.9
				return fv
			}(),
			wantErr: ErrFeatureKeyMismatch,
		},
		{
			name: "renamed key",
			vector: func() FeatureVector {
				fv := testVector(120, 0.5)
				delete(fv, "rmse_mean")
				fv["rms_mean"] = 0.5
				return fv
			}(),
			wantErr: ErrFeatureKeyMismatch,
		},
		{
			name: "NaN value",
			vector: func() FeatureVector {
				fv := testVector(120, 0.5)
				fv["rolloff_mean"] = math.NaN()
				return fv
			}(),
			wantErr: ErrFeatureNotFinite,
		},
		{
			name: "infinite value",
			vector: func() FeatureVector {
				fv := testVector(120, 0.5)
				fv["tempo"] = math.Inf(1)
				return fv
			}(),
			wantErr: ErrFeatureNotFinite,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.vector.Values()
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected error %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(FeatureKeys) {
				t.Fatalf("expected %d values, got %d", len(FeatureKeys), len(got))
			}
			// order must follow FeatureKeys exactly
			if got[0] != tc.vector["tempo"] {
				t.Fatalf("expected tempo first, got %v", got[0])
			}
			for i, key := range FeatureKeys {
				if got[i] != tc.vector[key] {
					t.Fatalf("index %d (%s): expected %v, got %v", i, key, tc.vector[key], got[i])
				}
			}
		})
	}
}
