package page

const (
	NotificationStylesID = "notification-styles"
	FieldErrorStylesID   = "field-error-styles"
)

const NotificationCSS = `
.notification {
    position: fixed;
    top: 20px;
    right: 20px;
    background: white;
    color: #333;
    padding: 15px 20px;
    border-radius: 8px;
    box-shadow: 0 4px 15px rgba(0,0,0,0.2);
    z-index: 10000;
    max-width: 400px;
    transform: translateX(150%);
    transition: transform 0.3s ease;
    border-left: 4px solid transparent;
}
.notification-success { background: #10b981; color: white; border-left-color: #059669; }
.notification-error { background: #ef4444; color: white; border-left-color: #dc2626; }
.notification-info { background: #3b82f6; color: white; border-left-color: #2563eb; }
.notification.show { transform: translateX(0); }
.notification.htmx-swapping { transform: translateX(150%); }
.notification-content { display: flex; align-items: center; justify-content: space-between; gap: 15px; }
.notification-message { flex: 1; line-height: 1.4; }
.notification-close {
    background: none;
    border: none;
    color: inherit;
    font-size: 1.2rem;
    cursor: pointer;
    padding: 0;
    width: 24px;
    height: 24px;
    border-radius: 4px;
}
.loading-spinner {
    display: inline-block;
    width: 16px;
    height: 16px;
    border: 2px solid transparent;
    border-top: 2px solid currentColor;
    border-radius: 50%;
    animation: spin 1s linear infinite;
    margin-right: 8px;
}
@keyframes spin { 0% { transform: rotate(0deg); } 100% { transform: rotate(360deg); } }
`

const FieldErrorCSS = `
.form-control.error { border-color: #ef4444; box-shadow: 0 0 0 3px rgba(239, 68, 68, 0.1); }
.form-control.valid { border-color: #10b981; }
.field-error { color: #ef4444; font-size: 0.8rem; margin-top: 5px; display: block; font-weight: 500; }
`
