// SPDX-License-Identifier: MPL-2.0

package pkgdef

type (
	validateOptions struct {
		validators           []Validator
		additionalValidators []Validator
		buildContext         BuildContext
		strictMode           bool
		filePath             string
	}

	// ValidateOption configures validation behavior.
	ValidateOption func(*validateOptions)

	// Validated is a manifest that passed validation. It can only be
	// obtained from Certify, so an emitter accepting *Validated cannot be
	// handed an unchecked manifest.
	Validated struct {
		manifest *Manifest
		warnings ValidationErrors
	}
)

// WithValidators replaces the default validators.
func WithValidators(validators ...Validator) ValidateOption {
	return func(o *validateOptions) {
		o.validators = validators
	}
}

// WithAdditionalValidators adds validators to run after the default validators.
func WithAdditionalValidators(validators ...Validator) ValidateOption {
	return func(o *validateOptions) {
		o.additionalValidators = append(o.additionalValidators, validators...)
	}
}

// WithBuildContext resolves payload sources against ctx instead of the
// manifest's own build context.
func WithBuildContext(ctx BuildContext) ValidateOption {
	return func(o *validateOptions) {
		o.buildContext = ctx
	}
}

// WithStrictMode enables strict validation mode.
// In strict mode, warnings are treated as errors.
func WithStrictMode(strict bool) ValidateOption {
	return func(o *validateOptions) {
		o.strictMode = strict
	}
}

// WithFilePath names the definition file; every reported violation carries it.
func WithFilePath(path string) ValidateOption {
	return func(o *validateOptions) {
		o.filePath = path
	}
}

func (o *validateOptions) getValidators() []Validator {
	validators := o.validators
	if validators == nil {
		validators = DefaultValidators()
	}
	return append(append([]Validator(nil), validators...), o.additionalValidators...)
}

// Validate runs every rule over m and returns all violations found.
// An empty result means m is valid. Validate never modifies m and returns
// the same result when called again on the same manifest.
func Validate(m *Manifest, opts ...ValidateOption) ValidationErrors {
	var o validateOptions
	for _, opt := range opts {
		opt(&o)
	}

	if m == nil {
		return ValidationErrors{newError("manifest", NewFieldPath(),
			&IncompleteManifestError{Missing: []string{"identity", "install directory"}})}
	}

	ctx := &ValidationContext{
		BuildContext: o.buildContext,
		StrictMode:   o.strictMode,
		FilePath:     o.filePath,
	}

	var result ValidationErrors
	for _, v := range o.getValidators() {
		result = append(result, v.Validate(ctx, m)...)
	}

	for i := range result {
		if ctx.StrictMode {
			result[i].Severity = SeverityError
		}
		if result[i].File == "" {
			result[i].File = ctx.FilePath
		}
	}
	return result
}

// Certify validates a snapshot of m. It returns the snapshot wrapped as
// *Validated when there are no error-level violations, and the full
// ValidationErrors otherwise.
func Certify(m *Manifest, opts ...ValidateOption) (*Validated, error) {
	snapshot := m.Clone()
	var o validateOptions
	for _, opt := range opts {
		opt(&o)
	}
	if snapshot != nil && o.buildContext.Root != "" {
		snapshot.BuildContext = o.buildContext
	}

	errs := Validate(snapshot, opts...)
	if errs.HasErrors() {
		return nil, errs
	}
	return &Validated{manifest: snapshot, warnings: errs.Warnings()}, nil
}

// Manifest returns a copy of the certified manifest.
func (v *Validated) Manifest() *Manifest {
	return v.manifest.Clone()
}

// Warnings returns the warnings reported when the manifest was certified.
func (v *Validated) Warnings() ValidationErrors {
	return append(ValidationErrors(nil), v.warnings...)
}
