// Package mailer formats order and contact submissions as HTML email
// and hands them to SMTP. There is no retry: a failed send surfaces as
// a single error to the caller.
package mailer

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	zlog "github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"

	"twinsfashion/internal/domain"
)

// Fixed BGN/EUR rate used for the dual-currency order summary.
const bgnPerEur = 1.95583

var (
	nameRe    = regexp.MustCompile(`^[А-Яа-яA-Za-z\s]+$`)
	cityRe    = regexp.MustCompile(`^[А-Яа-яA-Za-z0-9\s]+$`)
	addressRe = regexp.MustCompile(`^[А-Яа-яA-Za-z0-9\s.,-]*$`)
	phoneRe   = regexp.MustCompile(`^(\+359|0)(87|88|89|98)[0-9]{7}$`)
	emailRe   = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
)

type OrderItem struct {
	ProductID string  `json:"productId"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Size      string  `json:"size"`
}

type Order struct {
	CustomerName    string      `json:"customerName"`
	City            string      `json:"city"`
	DeliveryPlace   string      `json:"deliveryPlace"`
	DeliveryAddress string      `json:"deliveryAddress"`
	Phone           string      `json:"phone"`
	Items           []OrderItem `json:"items"`
	Total           float64     `json:"total"`
}

type Contact struct {
	EmailAddress string `json:"emailAddress"`
	Description  string `json:"description"`
}

func (o Order) Validate() error {
	name := strings.TrimSpace(o.CustomerName)
	if len([]rune(name)) < 5 || len([]rune(name)) > 50 || !nameRe.MatchString(name) {
		return fmt.Errorf("%w: името не трябва да съдържа цифри или специални символи", domain.ErrValidation)
	}
	city := strings.TrimSpace(o.City)
	if len([]rune(city)) < 3 || len([]rune(city)) > 50 || !cityRe.MatchString(city) {
		return fmt.Errorf("%w: градът не може да съдържа специални символи", domain.ErrValidation)
	}
	if strings.TrimSpace(o.DeliveryPlace) == "" {
		return fmt.Errorf("%w: мястото на доставка е задължително", domain.ErrValidation)
	}
	addr := strings.TrimSpace(o.DeliveryAddress)
	if len([]rune(addr)) > 100 || !addressRe.MatchString(addr) {
		return fmt.Errorf("%w: адресът трябва да съдържа само букви, цифри и ,.-", domain.ErrValidation)
	}
	if !phoneRe.MatchString(strings.TrimSpace(o.Phone)) {
		return fmt.Errorf("%w: въведете валиден български телефонен номер", domain.ErrValidation)
	}
	return nil
}

func (c Contact) Validate() error {
	if !emailRe.MatchString(strings.TrimSpace(c.EmailAddress)) {
		return fmt.Errorf("%w: моля въведете валиден имейл адрес", domain.ErrValidation)
	}
	desc := strings.TrimSpace(c.Description)
	if n := len([]rune(desc)); n < 10 || n > 100 {
		return fmt.Errorf("%w: съобщението трябва да е между 10 и 100 символа", domain.ErrValidation)
	}
	return nil
}

type Mailer struct {
	Host string
	Port int
	User string
	Pass string
	To   string
}

// FromEnv reads the SMTP settings. A mailer without a host is allowed;
// sends become logged no-ops so dev setups work without SMTP.
func FromEnv() *Mailer {
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if port == 0 {
		port = 587
	}
	to := os.Getenv("ORDER_NOTIFY_EMAIL")
	if to == "" {
		to = os.Getenv("SMTP_USER")
	}
	return &Mailer{
		Host: os.Getenv("SMTP_HOST"),
		Port: port,
		User: os.Getenv("SMTP_USER"),
		Pass: os.Getenv("SMTP_PASS"),
		To:   to,
	}
}

func (m *Mailer) configured() bool {
	return m.Host != "" && m.User != "" && m.Pass != ""
}

func (m *Mailer) send(subject, htmlBody string) error {
	if !m.configured() {
		zlog.Warn().Msg("SMTP not configured, skipping email send")
		return nil
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.User)
	msg.SetHeader("To", m.To)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(m.Host, m.Port, m.User, m.Pass)
	if err := d.DialAndSend(msg); err != nil {
		zlog.Error().Err(err).Str("subject", subject).Msg("email send failed")
		return err
	}
	return nil
}

func (m *Mailer) SendOrder(o Order) error {
	return m.send("Поръчка на продукти", orderBody(o))
}

func (m *Mailer) SendContact(c Contact) error {
	body := fmt.Sprintf("Въпрос %s от %s", c.Description, c.EmailAddress)
	return m.send("Въпроси : ", body)
}

func orderBody(o Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>Клиент:</b> %s<br>", o.CustomerName)
	fmt.Fprintf(&b, "<b>Телефон:</b> %s<br>", o.Phone)
	fmt.Fprintf(&b, "<b>Град:</b> %s<br>", o.City)
	fmt.Fprintf(&b, "<b>Доставка:</b> %s<br>", o.DeliveryPlace)
	fmt.Fprintf(&b, "<b>Адрес:</b> %s<br><br>", o.DeliveryAddress)

	if len(o.Items) > 0 {
		b.WriteString("<br><b>Поръчани продукти:</b><br>")
		total := 0.0
		for _, it := range o.Items {
			fmt.Fprintf(&b, "Име на продукт: %s<br>", it.Title)
			fmt.Fprintf(&b, "Размер: %s<br>", it.Size)
			fmt.Fprintf(&b, "Количество: %d<br>", it.Quantity)
			fmt.Fprintf(&b, "Цена: %s<br>", formatEuro(it.Price))
			b.WriteString("--------------------------<br>")
			total += it.Price * float64(it.Quantity)
		}
		fmt.Fprintf(&b, "<br><b>Обща сума на поръчката:</b> %s", formatEuro(total))
	}
	return b.String()
}

func formatEuro(amountBgn float64) string {
	return fmt.Sprintf("€%.2f", amountBgn/bgnPerEur)
}
