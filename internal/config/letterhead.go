package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Phone is a labelled seller phone number.
type Phone struct {
	Label  string `mapstructure:"label" json:"label"`
	Number string `mapstructure:"number" json:"number"`
}

// Letterhead is the seller profile printed on every invoice.
type Letterhead struct {
	CompanyName   string   `mapstructure:"company_name" json:"companyName"`
	Website       string   `mapstructure:"website" json:"website"`
	AddressLines  []string `mapstructure:"address_lines" json:"addressLines"`
	Phones        []Phone  `mapstructure:"phones" json:"phones"`
	Email         string   `mapstructure:"email" json:"email"`
	LogoPath      string   `mapstructure:"logo_path" json:"-"`
	StampPath     string   `mapstructure:"stamp_path" json:"-"`
	PriceCurrency string   `mapstructure:"price_currency" json:"priceCurrency"`
	LegalLines    []string `mapstructure:"legal_lines" json:"legalLines"`
	ThankYou      string   `mapstructure:"thank_you" json:"thankYou"`
}

func DefaultLetterhead() Letterhead {
	return Letterhead{
		CompanyName:  "STARLINK JEWELS INC",
		Website:      "WWW.STARLINKJEWELS.COM",
		AddressLines: []string{"55 JOHN ST", "EAST RUTHERFORD", "NEW JERSEY 07073"},
		Phones: []Phone{
			{Label: "Tel No", Number: "+91 83472 78188"},
			{Label: "Primary", Number: "+1 201 554 4824"},
		},
		Email:         "Starlinkjewels@gmail.com",
		PriceCurrency: "USD / HKD",
		LegalLines: []string{
			"This Items Here in Invoiced Has Been Purchased from Legal Sources, Not Involved in Funding Conflict and In Compliance with United Nations Resolutions.",
			"The Seller Here by Guaranteed This Item Are Conflict Free and Not Involved in Any Money Laundering, Based On Personal Knowledge and Written Guarantied Provided by The Supplier of This Item.",
		},
		ThankYou: "THANK YOU FOR YOUR BUSINESS",
	}
}

type LetterheadHolder struct {
	current atomic.Value // holds Letterhead
	log     *zap.Logger
}

// NewLetterheadHolder reads letterhead.yml from the usual config paths,
// falling back to DefaultLetterhead, and reloads it when the file changes.
func NewLetterheadHolder(log *zap.Logger) (*LetterheadHolder, error) {
	return newLetterheadHolder(log, getenvBool("LETTERHEAD_WATCH", true),
		"/var/lib/gembill/config", // Volume-mounted config
		"/etc/gembill",
		".",
	)
}

func newLetterheadHolder(log *zap.Logger, watch bool, paths ...string) (*LetterheadHolder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	v := viper.New()

	v.SetConfigName("letterhead")
	v.SetConfigType("yml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix("GEMBILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultLetterhead()
	v.SetDefault("letterhead.company_name", defaults.CompanyName)
	v.SetDefault("letterhead.website", defaults.Website)
	v.SetDefault("letterhead.address_lines", defaults.AddressLines)
	v.SetDefault("letterhead.phones", []map[string]string{
		{"label": defaults.Phones[0].Label, "number": defaults.Phones[0].Number},
		{"label": defaults.Phones[1].Label, "number": defaults.Phones[1].Number},
	})
	v.SetDefault("letterhead.email", defaults.Email)
	v.SetDefault("letterhead.price_currency", defaults.PriceCurrency)
	v.SetDefault("letterhead.legal_lines", defaults.LegalLines)
	v.SetDefault("letterhead.thank_you", defaults.ThankYou)

	found := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		found = false
	}

	cfg, err := decodeLetterhead(v)
	if err != nil {
		return nil, err
	}

	holder := &LetterheadHolder{log: log.Named("letterhead")}
	holder.current.Store(cfg)

	if found && watch {
		v.OnConfigChange(func(e fsnotify.Event) {
			holder.reload(v, e.Name)
		})
		v.WatchConfig()
	}

	return holder, nil
}

// StaticLetterhead wraps a fixed profile, mainly for tests.
func StaticLetterhead(l Letterhead) *LetterheadHolder {
	holder := &LetterheadHolder{log: zap.NewNop()}
	holder.current.Store(l)
	return holder
}

func (h *LetterheadHolder) Get() Letterhead {
	return h.current.Load().(Letterhead)
}

func (h *LetterheadHolder) reload(v *viper.Viper, source string) {
	updated, err := decodeLetterhead(v)
	if err != nil {
		h.log.Warn("invalid letterhead ignored", zap.String("file", source), zap.Error(err))
		return
	}
	h.current.Store(updated)
	h.log.Info("letterhead reloaded", zap.String("file", source))
}

func decodeLetterhead(v *viper.Viper) (Letterhead, error) {
	// Unmarshal merges defaults per leaf key, UnmarshalKey would not.
	var file struct {
		Letterhead Letterhead `mapstructure:"letterhead"`
	}
	if err := v.Unmarshal(&file); err != nil {
		return Letterhead{}, err
	}
	if err := validateLetterhead(file.Letterhead); err != nil {
		return Letterhead{}, err
	}
	return file.Letterhead, nil
}

func validateLetterhead(cfg Letterhead) error {
	if strings.TrimSpace(cfg.CompanyName) == "" {
		return errors.New("letterhead.company_name cannot be empty")
	}
	if len(cfg.AddressLines) == 0 {
		return errors.New("letterhead.address_lines cannot be empty")
	}
	return nil
}
